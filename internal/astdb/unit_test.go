package astdb

import "testing"

func TestEmitNodeOrderingInvariant(t *testing.T) {
	u := NewUnit("t.lang", "1 + 2")
	tLit1 := u.AddToken(Token{Kind: TokInteger})
	n1 := u.EmitNode(KindIntegerLiteral, tLit1, tLit1)
	tLit2 := u.AddToken(Token{Kind: TokInteger})
	n2 := u.EmitNode(KindIntegerLiteral, tLit2, tLit2)
	root := u.EmitNode(KindBinaryExpr, tLit1, tLit2, n1, n2)

	if root <= n1 || root <= n2 {
		t.Fatalf("parent index must exceed descendant indices")
	}
	kids := u.Children(u.Node(root))
	if len(kids) != 2 || kids[0] != n1 || kids[1] != n2 {
		t.Fatalf("children must appear in source order, got %v", kids)
	}
}

func TestEmitNodePanicsOnForwardReference(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on forward-referencing child")
		}
	}()
	u := NewUnit("t.lang", "")
	// Node 0 cannot reference node 0 (itself) or anything >= its own id.
	u.EmitNode(KindBinaryExpr, 0, 0, NodeId(0))
}

func TestRotateWhenRegions(t *testing.T) {
	u := NewUnit("t.lang", "return 1 when x")

	// Build the statement region: return_stmt wrapping integer_literal(1).
	tInt := u.AddToken(Token{Kind: TokInteger})
	litNode := u.EmitNode(KindIntegerLiteral, tInt, tInt)
	stmtRoot := u.EmitNode(KindReturnStmt, tInt, tInt, litNode)
	_, stmtHi := u.Watermarks()

	// Build the condition region: identifier(x).
	tIdent := u.AddToken(Token{Kind: TokIdent})
	condRoot := u.EmitNode(KindIdentifier, tIdent, tIdent)
	_, hiEdge := u.Watermarks()
	_ = hiEdge

	newCondRoot, newStmtRoot := u.RotateWhenRegions(0, stmtRoot+1, condRoot+1)
	_ = stmtHi

	if newCondRoot >= newStmtRoot {
		t.Fatalf("condition root must precede statement root after rotation, got cond=%d stmt=%d", newCondRoot, newStmtRoot)
	}
	condNode := u.Node(newCondRoot)
	if condNode.Kind != KindIdentifier {
		t.Fatalf("expected identifier at new cond root, got %v", condNode.Kind)
	}
	stmtNode := u.Node(newStmtRoot)
	if stmtNode.Kind != KindReturnStmt {
		t.Fatalf("expected return_stmt at new stmt root, got %v", stmtNode.Kind)
	}
	// The return_stmt's child (the integer literal) must still resolve
	// correctly after the edge remap.
	kids := u.Children(stmtNode)
	if len(kids) != 1 || u.Node(kids[0]).Kind != KindIntegerLiteral {
		t.Fatalf("return_stmt child not correctly remapped: %v", kids)
	}

	post := u.EmitNode(KindPostfixWhen, tInt, tIdent, newCondRoot, newStmtRoot)
	postKids := u.Children(u.Node(post))
	if postKids[0] != newCondRoot || postKids[1] != newStmtRoot {
		t.Fatalf("postfix_when must hold (cond, stmt) in that order")
	}
}

func TestValidateInvariantsCleanTree(t *testing.T) {
	u := NewUnit("t.lang", "1")
	tok := u.AddToken(Token{Kind: TokInteger})
	u.EmitNode(KindIntegerLiteral, tok, tok)
	if problems := u.ValidateInvariants(); len(problems) != 0 {
		t.Fatalf("expected no invariant violations, got %v", problems)
	}
}
