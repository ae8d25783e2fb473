package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/interner"
	"github.com/lattice-lang/astcore/internal/tokenmap"
)

// golden_test.go runs the parser end to end (Token Mapper included) over
// fixtures stored as txtar archives: a "tokens.json" file holding the
// external tokenizer's output, and a "want.txt" file holding an indented
// dump of the resulting node-kind tree.

func file(ar *txtar.Archive, name string) []byte {
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data
		}
	}
	return nil
}

func dumpTree(u *astdb.Unit, n astdb.NodeId, depth int, sb *strings.Builder) {
	node := u.Node(n)
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(node.Kind.String())
	sb.WriteByte('\n')
	for _, c := range u.Children(node) {
		dumpTree(u, c, depth+1, sb)
	}
}

func runGolden(t *testing.T, path string) {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}

	var toks []tokenmap.SourceToken
	if err := json.Unmarshal(file(ar, "tokens.json"), &toks); err != nil {
		t.Fatalf("parsing tokens.json: %v", err)
	}
	want := strings.TrimLeft(string(file(ar, "want.txt")), "\n")

	in := interner.New()
	unit := astdb.NewUnit("golden.lang", "")
	for _, tk := range tokenmap.Map(in, toks) {
		unit.AddToken(tk)
	}
	p := New(unit, nil, "")
	root := p.ParseProgram()

	var sb strings.Builder
	dumpTree(unit, root, 0, &sb)
	if sb.String() != want {
		t.Fatalf("node tree mismatch for %s:\ngot:\n%s\nwant:\n%s", path, sb.String(), want)
	}
}

func TestGoldenFuncDecl(t *testing.T) {
	runGolden(t, "testdata/func_decl.txtar")
}
