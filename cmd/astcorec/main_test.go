package main

import (
	"testing"

	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/modules"
)

// buildUseStmtUnit builds `use a.b.c` as a standalone unit: a use_stmt
// with three identifier segments under a source_file root.
func buildUseStmtUnit(db *astdb.ASTDB, filename string, segments ...string) *astdb.Unit {
	u := astdb.NewUnit(filename, "")
	var children []astdb.NodeId
	var last astdb.TokenId
	for _, seg := range segments {
		tokId := u.AddToken(astdb.Token{Kind: astdb.TokIdent, Str: db.Interner.InternString(seg), HasStr: true})
		children = append(children, u.EmitNode(astdb.KindIdentifier, tokId, tokId))
		last = tokId
	}
	useId := u.EmitNode(astdb.KindUseStmt, u.Node(children[0]).FirstToken, last, children...)
	root := u.EmitNode(astdb.KindSourceFile, u.Node(useId).FirstToken, u.Node(useId).LastToken, useId)
	u.Finalize(root)
	return u
}

func TestModulePathOfJoinsSegments(t *testing.T) {
	db := astdb.New()
	u := buildUseStmtUnit(db, "main.lang", "a", "b", "c")
	decl := u.Node(u.Children(u.Node(u.RootNode))[0])

	got := modulePathOf(u, db, decl)
	if got != "a.b.c" {
		t.Fatalf("got %q, want %q", got, "a.b.c")
	}
}

// buildZigGraftUnit builds `use zig "path"` as a standalone unit.
func buildZigGraftUnit(db *astdb.ASTDB, filename, path string) *astdb.Unit {
	u := astdb.NewUnit(filename, "")
	pathTok := u.AddToken(astdb.Token{Kind: astdb.TokString, Str: db.Interner.InternString(path), HasStr: true})
	pathNode := u.EmitNode(astdb.KindStringLiteral, pathTok, pathTok)
	useId := u.EmitNode(astdb.KindUseZig, pathTok, pathTok, pathNode)
	root := u.EmitNode(astdb.KindSourceFile, pathTok, pathTok, useId)
	u.Finalize(root)
	return u
}

// buildGraftUnit builds either `use alias = origin "path"` (origin !=
// "") or `use origin "path"` (origin == "") as a standalone unit.
func buildGraftUnit(db *astdb.ASTDB, filename, alias, origin, path string) *astdb.Unit {
	u := astdb.NewUnit(filename, "")
	aliasTok := u.AddToken(astdb.Token{Kind: astdb.TokIdent, Str: db.Interner.InternString(alias), HasStr: true})
	aliasNode := u.EmitNode(astdb.KindIdentifier, aliasTok, aliasTok)
	children := []astdb.NodeId{aliasNode}
	if origin != "" {
		originTok := u.AddToken(astdb.Token{Kind: astdb.TokIdent, Str: db.Interner.InternString(origin), HasStr: true})
		children = append(children, u.EmitNode(astdb.KindIdentifier, originTok, originTok))
	}
	pathTok := u.AddToken(astdb.Token{Kind: astdb.TokString, Str: db.Interner.InternString(path), HasStr: true})
	children = append(children, u.EmitNode(astdb.KindStringLiteral, pathTok, pathTok))
	useId := u.EmitNode(astdb.KindGraft, aliasTok, pathTok, children...)
	root := u.EmitNode(astdb.KindSourceFile, aliasTok, pathTok, useId)
	u.Finalize(root)
	return u
}

func TestRegisterModulePathsRegistersZigGraft(t *testing.T) {
	db := astdb.New()
	u := buildZigGraftUnit(db, "app/main.lang", "./json.zig")
	mods := modules.NewDispatcher()

	registerModulePaths([]*astdb.Unit{u}, db, mods)

	if _, ok := mods.GetModule("app/json.zig"); !ok {
		t.Fatalf("expected the graft's native path to be registered as a module")
	}
	own, ok := mods.GetModule("main")
	if !ok {
		t.Fatalf("expected the unit's own module to be registered")
	}
	if own.Grafts["json"] != "app/json.zig" {
		t.Fatalf("expected the zig graft to be recorded under alias %q, got %q", "json", own.Grafts["json"])
	}
}

func TestRegisterModulePathsRegistersAliasedGraft(t *testing.T) {
	db := astdb.New()
	u := buildGraftUnit(db, "main.lang", "j", "std", "json.zig")
	mods := modules.NewDispatcher()

	registerModulePaths([]*astdb.Unit{u}, db, mods)

	own, ok := mods.GetModule("main")
	if !ok {
		t.Fatalf("expected the unit's own module to be registered")
	}
	want := "std:json.zig"
	if own.Grafts["j"] != want {
		t.Fatalf("got graft path %q, want %q", own.Grafts["j"], want)
	}
	if _, ok := mods.GetModule(want); !ok {
		t.Fatalf("expected the aliased graft's native path to be registered as a module")
	}
}

func TestRegisterModulePathsRegistersUnaliasedGraft(t *testing.T) {
	db := astdb.New()
	u := buildGraftUnit(db, "main.lang", "std", "", "std.zig")
	mods := modules.NewDispatcher()

	registerModulePaths([]*astdb.Unit{u}, db, mods)

	own, ok := mods.GetModule("main")
	if !ok {
		t.Fatalf("expected the unit's own module to be registered")
	}
	if own.Grafts["std"] != "std.zig" {
		t.Fatalf("got graft path %q, want %q", own.Grafts["std"], "std.zig")
	}
}

func TestRegisterModulePathsRegistersOwnAndUsedModules(t *testing.T) {
	db := astdb.New()
	u := buildUseStmtUnit(db, "app/main.lang", "stdlib", "strings")
	mods := modules.NewDispatcher()

	registerModulePaths([]*astdb.Unit{u}, db, mods)

	if _, ok := mods.GetModule("main"); !ok {
		t.Fatalf("expected the unit's own derived module name to be registered")
	}
	if _, ok := mods.GetModule("stdlib.strings"); !ok {
		t.Fatalf("expected the used module path to be registered")
	}
}
