// Command astcorec drives the core pipeline (Token-Map -> Parse -> Commit
// -> Register -> Resolve -> Diagnose) over a tree of source files and
// prints the accumulated diagnostics.
//
// The raw byte tokenizer is an external collaborator (see the tokenmap
// package), so astcorec consumes its output directly: for every source
// file under --source it expects a sibling JSON token stream under
// --tokens, at the same relative path with a ".toks.json" extension,
// holding a JSON array of tokenmap.SourceToken.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/config"
	"github.com/lattice-lang/astcore/internal/diagnostics"
	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/modules"
	"github.com/lattice-lang/astcore/internal/pipeline"
	"github.com/lattice-lang/astcore/internal/tokenmap"
	"github.com/lattice-lang/astcore/internal/typesystem"
	"github.com/lattice-lang/astcore/internal/utils"
)

func main() {
	sourcePath := flag.String("source", "", "directory (or single file) of .lang/.ast sources to compile")
	tokensPath := flag.String("tokens", "", "directory of matching <name>.toks.json token streams from the external tokenizer")
	profilesPath := flag.String("profiles", "", "path to a profiles.yaml document (optional)")
	profileName := flag.String("profile", "", "active profile name (optional)")
	query := flag.String("query", "", "diagnostics query expression (e.g. severity=error or code~\"R0*\"); prints only matches")
	flag.Parse()

	if err := run(*sourcePath, *tokensPath, *profilesPath, *profileName, *query); err != nil {
		fmt.Fprintln(os.Stderr, "astcorec:", err)
		os.Exit(1)
	}
}

func run(sourcePath, tokensPath, profilesPath, profileName, query string) error {
	if sourcePath == "" || tokensPath == "" {
		return fmt.Errorf("--source and --tokens are required")
	}

	sources, err := collectSourceTree(sourcePath)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no recognized source files under %s", sourcePath)
	}

	tokenSets := make(map[string][]tokenmap.SourceToken, len(sources))
	for rel := range sources {
		toks, err := loadTokenStream(tokensPath, rel)
		if err != nil {
			return err
		}
		tokenSets[rel] = toks
	}

	var profiles *config.ProfileSet
	if profilesPath != "" {
		data, err := os.ReadFile(profilesPath)
		if err != nil {
			return err
		}
		profiles, err = config.LoadProfiles(data)
		if err != nil {
			return err
		}
	}

	db := astdb.New()
	types := typesystem.NewRegistry()
	conversions := typesystem.NewConversionRegistry()
	scopes := dispatch.NewScopeManager(dispatch.NewSignatureAnalyzer())
	mods := modules.NewDispatcher()

	build := func(filename, source string) (*astdb.Unit, error) {
		ctx := pipeline.NewPipelineContext(filename, source, db, profiles, profileName, types, conversions, scopes, mods)
		ctx.SourceTokens = tokenSets[filename]
		pl := pipeline.New(pipeline.TokenMapProcessor{}, pipeline.ParseProcessor{})
		ctx = pl.Run(ctx)
		if ctx.Unit == nil {
			return nil, fmt.Errorf("%s: %w", filename, astdb.ErrUnitCreationFailed)
		}
		return ctx.Unit, nil
	}

	ids, err := db.AddUnits(context.Background(), sources, build)
	if err != nil {
		return err
	}

	units := make([]*astdb.Unit, len(ids))
	for i, id := range ids {
		units[i] = db.GetUnit(id)
	}

	registerModulePaths(units, db, mods)

	// Every declaration registers before any call resolves, so a call in
	// one file can dispatch to a function declared in another file from
	// the same batch.
	for _, unit := range units {
		ctx := unitContext(unit, db, profiles, profileName, types, conversions, scopes, mods)
		pipeline.RegisterProcessor{}.Process(ctx)
	}

	var allDiags []diagnostics.Diagnostic
	for _, unit := range units {
		ctx := unitContext(unit, db, profiles, profileName, types, conversions, scopes, mods)
		pipeline.ResolveProcessor{}.Process(ctx)
		pipeline.EffectContractProcessor{}.Process(ctx)
		pipeline.DiagnoseProcessor{}.Process(ctx)
		allDiags = append(allDiags, ctx.Errors...)
	}

	sort.SliceStable(allDiags, func(i, j int) bool {
		return allDiags[i].Span.StartLine < allDiags[j].Span.StartLine
	})

	if query != "" {
		pred, err := diagnostics.ParseQuery(query)
		if err != nil {
			return fmt.Errorf("invalid --query expression: %w", err)
		}
		filtered := allDiags[:0]
		for _, d := range allDiags {
			if pred(d) {
				filtered = append(filtered, d)
			}
		}
		allDiags = filtered
	}

	printDiagnostics(allDiags)

	for _, d := range allDiags {
		if d.Severity == diagnostics.Error || d.Severity == diagnostics.Fatal {
			return fmt.Errorf("compilation failed with errors")
		}
	}
	return nil
}

// unitContext builds a fresh PipelineContext bound to an already-parsed
// unit for the Register/Resolve/Diagnose stages. NewPipelineContext's
// WildcardType resolution is idempotent per shared Registry, so
// rebuilding a context per stage per unit costs nothing beyond the
// lookup.
func unitContext(unit *astdb.Unit, db *astdb.ASTDB, profiles *config.ProfileSet, profileName string,
	types *typesystem.Registry, conversions *typesystem.ConversionRegistry,
	scopes *dispatch.ScopeManager, mods *modules.Dispatcher) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(unit.Filename, unit.Source, db, profiles, profileName, types, conversions, scopes, mods)
	ctx.Unit = unit
	ctx.AstRoot = unit.RootNode
	return ctx
}

// registerModulePaths records every `use` form with the Module
// Dispatcher: a plain module-path `use a.b.c` registers the named
// module directly, while the three graft forms (`use zig "path"`,
// `use alias = origin "path"`, `use origin "path"`) register the
// native path as its own module and record the graft's local alias
// with RegisterGraft. Each module's own path is derived from its
// filename the way a standalone compilation unit would name itself
// absent an explicit package declaration; graft paths are resolved
// relative to the importing file's directory the same way a
// module-path import would be.
func registerModulePaths(units []*astdb.Unit, db *astdb.ASTDB, mods *modules.Dispatcher) {
	for _, unit := range units {
		ownName := utils.ExtractModuleName(unit.Filename)
		if _, err := mods.RegisterModule(ownName, "0.0.0"); err != nil {
			continue
		}
		if unit.RootNode == astdb.NoNodeId {
			continue
		}
		baseDir := utils.GetModuleDir(unit.Filename)
		root := unit.Node(unit.RootNode)
		for _, declId := range unit.Children(root) {
			decl := unit.Node(declId)
			switch decl.Kind {
			case astdb.KindUseStmt:
				path := modulePathOf(unit, db, decl)
				if path == "" {
					continue
				}
				_, _ = mods.RegisterModule(path, "0.0.0")
			case astdb.KindUseZig:
				registerZigGraft(unit, db, mods, ownName, baseDir, decl)
			case astdb.KindGraft:
				registerGraft(unit, db, mods, ownName, baseDir, decl)
			}
		}
	}
}

// registerZigGraft handles `use zig "path"`: the syntax carries no
// local name at all, so the alias it becomes visible under is the
// native path's own base name, same as ExtractModuleName derives a
// file's module name from its filename.
func registerZigGraft(unit *astdb.Unit, db *astdb.ASTDB, mods *modules.Dispatcher, ownName, baseDir string, decl astdb.Node) {
	children := unit.Children(decl)
	if len(children) != 1 {
		return
	}
	path := tokenText(unit, db, children[0])
	if path == "" {
		return
	}
	resolved := utils.ResolveImportPath(baseDir, path)
	base := filepath.Base(resolved)
	alias := strings.TrimSuffix(base, filepath.Ext(base))
	_ = mods.RegisterGraft(ownName, alias, resolved)
}

// registerGraft handles the two identifier-bearing graft forms:
// `use alias = origin "path"` (3 children: alias, origin, path) and
// `use origin "path"` (2 children: origin, path), where the unaliased
// form's lone identifier plays both roles.
func registerGraft(unit *astdb.Unit, db *astdb.ASTDB, mods *modules.Dispatcher, ownName, baseDir string, decl astdb.Node) {
	children := unit.Children(decl)
	var alias, origin, pathNode astdb.NodeId
	switch len(children) {
	case 3:
		alias, origin, pathNode = children[0], children[1], children[2]
	case 2:
		alias, origin, pathNode = children[0], children[0], children[1]
	default:
		return
	}

	aliasName := tokenText(unit, db, alias)
	originName := tokenText(unit, db, origin)
	path := tokenText(unit, db, pathNode)
	if aliasName == "" || path == "" {
		return
	}
	resolved := utils.ResolveImportPath(baseDir, path)
	nativePath := resolved
	if originName != "" && originName != aliasName {
		nativePath = originName + ":" + resolved
	}
	_ = mods.RegisterGraft(ownName, aliasName, nativePath)
}

// tokenText resolves an identifier or string-literal node's interned
// text; both node kinds carry their value on FirstToken the same way.
func tokenText(unit *astdb.Unit, db *astdb.ASTDB, nodeId astdb.NodeId) string {
	node := unit.Node(nodeId)
	tok := unit.Token(node.FirstToken)
	if !tok.HasStr {
		return ""
	}
	return db.Interner.Resolve(tok.Str)
}

func modulePathOf(unit *astdb.Unit, db *astdb.ASTDB, decl astdb.Node) string {
	segments := ""
	for i, childId := range unit.Children(decl) {
		child := unit.Node(childId)
		tok := unit.Token(child.FirstToken)
		if !tok.HasStr {
			return ""
		}
		if i > 0 {
			segments += "."
		}
		segments += db.Interner.Resolve(tok.Str)
	}
	return segments
}

func loadTokenStream(tokensDir, relSourcePath string) ([]tokenmap.SourceToken, error) {
	path := tokenStreamPath(tokensDir, relSourcePath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token stream for %s: %w", relSourcePath, err)
	}
	var toks []tokenmap.SourceToken
	if err := json.Unmarshal(data, &toks); err != nil {
		return nil, fmt.Errorf("parsing token stream %s: %w", path, err)
	}
	return toks, nil
}

func printDiagnostics(diags []diagnostics.Diagnostic) {
	color := colorEnabled()
	for _, d := range diags {
		if color {
			fmt.Printf("%s%s%s[%s] %d:%d: %s\n", severityColor(d.Severity), d.Severity, colorReset, d.Code, d.Span.StartLine, d.Span.StartCol, d.Message)
		} else {
			fmt.Printf("%s[%s] %d:%d: %s\n", d.Severity, d.Code, d.Span.StartLine, d.Span.StartCol, d.Message)
		}
		for _, h := range d.Hints {
			fmt.Printf("  hint: %s\n", h)
		}
	}
	if len(diags) == 0 {
		fmt.Println("no diagnostics")
	}
}
