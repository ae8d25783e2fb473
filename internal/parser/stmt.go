package parser

import "github.com/lattice-lang/astcore/internal/astdb"

// postfixEligible is the set of statement kinds the postfix `when`/
// `unless` modifier may attach to (§4.4.3): return, fail, let/var/const,
// defer, expression statements, and assignments (assignments surface as
// expr_stmt wrapping a binary_expr with an assignment operator, so no
// separate kind is needed here).
var postfixEligible = map[astdb.NodeKind]bool{
	astdb.KindReturnStmt: true, astdb.KindFailStmt: true,
	astdb.KindLetStmt: true, astdb.KindVarStmt: true, astdb.KindConstStmt: true,
	astdb.KindDeferStmt: true, astdb.KindExprStmt: true,
}

// parseStatement parses one statement and, if it is postfix-eligible
// and immediately followed by `when`/`unless`, rotates it with the
// trailing condition per RotateWhenRegions.
func (p *Parser) parseStatement() astdb.NodeId {
	nodeWatermark, _ := p.unit.Watermarks()
	stmt := p.parseStatementInner()

	if !p.at(astdb.TokWhen) && !p.at(astdb.TokUnless) {
		return stmt
	}
	if !postfixEligible[p.unit.Node(stmt).Kind] {
		return stmt
	}

	isUnless := p.at(astdb.TokUnless)
	p.advance() // consume 'when'/'unless'

	condMid, _ := p.unit.Watermarks()
	cond := p.parseExpression(precAssignment)
	_ = cond
	condHi, _ := p.unit.Watermarks()

	condRoot, stmtRoot := p.unit.RotateWhenRegions(astdb.NodeId(nodeWatermark), astdb.NodeId(condMid), astdb.NodeId(condHi))

	// Source order is `stmt when cond`, so the span's low end comes from
	// the statement (parsed first) and the high end from the condition
	// (parsed last), even though the condition is now the first child.
	firstTok := p.unit.Node(stmtRoot).FirstToken
	lastTok := p.unit.Node(condRoot).LastToken
	kind := astdb.KindPostfixWhen
	if isUnless {
		kind = astdb.KindPostfixUnless
	}
	return p.unit.EmitNode(kind, firstTok, lastTok, condRoot, stmtRoot)
}

func (p *Parser) parseStatementInner() astdb.NodeId {
	switch p.cur().Kind {
	case astdb.TokLet:
		return p.parseBindingStmt(astdb.TokLet, astdb.KindLetStmt)
	case astdb.TokVar:
		return p.parseBindingStmt(astdb.TokVar, astdb.KindVarStmt)
	case astdb.TokConst:
		return p.parseBindingStmt(astdb.TokConst, astdb.KindConstStmt)
	case astdb.TokReturn:
		return p.parseSimpleExprStmt(astdb.TokReturn, astdb.KindReturnStmt, true)
	case astdb.TokFail:
		return p.parseSimpleExprStmt(astdb.TokFail, astdb.KindFailStmt, true)
	case astdb.TokDefer:
		return p.parseSimpleExprStmt(astdb.TokDefer, astdb.KindDeferStmt, false)
	case astdb.TokBreak:
		return p.parseBareStmt(astdb.TokBreak, astdb.KindBreakStmt)
	case astdb.TokContinue:
		return p.parseBareStmt(astdb.TokContinue, astdb.KindContinueStmt)
	case astdb.TokIf:
		return p.parseIfStmt()
	case astdb.TokWhile:
		return p.parseWhileStmt()
	case astdb.TokFor:
		return p.parseForStmt()
	case astdb.TokMatch:
		return p.parseMatchStmt()
	case astdb.TokDo:
		return p.parseBlock()
	case astdb.TokUsing:
		return p.parseUsingStmt()
	case astdb.TokNursery:
		return p.parseNurseryStmt()
	case astdb.TokSelect:
		return p.parseSelectStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() astdb.NodeId {
	startTok := p.curId()
	p.advance() // consume 'do'
	var children []astdb.NodeId
	p.skipNewlines()
	for !p.at(astdb.TokEnd) && !p.at(astdb.TokEOF) {
		before := p.pos
		children = append(children, p.parseStatement())
		if p.pos == before {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(astdb.TokEnd)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindBlockStmt, startTok, endTokId, children...)
}

func (p *Parser) parseBindingStmt(kw astdb.TokenKind, kind astdb.NodeKind) astdb.NodeId {
	startTok := p.curId()
	p.advance() // consume let/var/const
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)

	children := []astdb.NodeId{name}
	if p.at(astdb.TokAssign) {
		p.advance()
		value := p.parseExpression(precAssignment)
		children = append(children, value)
	}
	endTokId := astdb.TokenId(p.pos - 1)
	if len(children) > 1 {
		endTokId = p.unit.Node(children[len(children)-1]).LastToken
	}
	_ = kw
	return p.unit.EmitNode(kind, startTok, endTokId, children...)
}

func (p *Parser) parseSimpleExprStmt(kw astdb.TokenKind, kind astdb.NodeKind, exprRequired bool) astdb.NodeId {
	startTok := p.curId()
	p.advance()
	var children []astdb.NodeId
	endTokId := astdb.TokenId(p.pos - 1)
	if !p.at(astdb.TokNewline) && !p.at(astdb.TokEnd) && !p.at(astdb.TokEOF) &&
		!p.at(astdb.TokWhen) && !p.at(astdb.TokUnless) {
		value := p.parseExpression(precAssignment)
		children = append(children, value)
		endTokId = p.unit.Node(value).LastToken
	} else if exprRequired {
		// Bare return/fail with no value; still well-formed.
	}
	_ = kw
	return p.unit.EmitNode(kind, startTok, endTokId, children...)
}

func (p *Parser) parseBareStmt(kw astdb.TokenKind, kind astdb.NodeKind) astdb.NodeId {
	tokId := p.curId()
	p.advance()
	_ = kw
	return p.unit.EmitNode(kind, tokId, tokId)
}

func (p *Parser) parseExprStmt() astdb.NodeId {
	startTok := p.curId()
	expr := p.parseExpression(precNone)
	lastTok := p.unit.Node(expr).LastToken
	_ = startTok
	return p.unit.EmitNode(astdb.KindExprStmt, p.unit.Node(expr).FirstToken, lastTok, expr)
}

func (p *Parser) parseIfStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'if'
	cond := p.parseExpression(precNone)
	then := p.parseBlock()
	children := []astdb.NodeId{cond, then}
	endTokId := p.unit.Node(then).LastToken
	if p.at(astdb.TokElse) {
		p.advance()
		var elseNode astdb.NodeId
		if p.at(astdb.TokIf) {
			elseNode = p.parseIfStmt()
		} else {
			elseNode = p.parseBlock()
		}
		children = append(children, elseNode)
		endTokId = p.unit.Node(elseNode).LastToken
	}
	return p.unit.EmitNode(astdb.KindIfStmt, startTok, endTokId, children...)
}

func (p *Parser) parseWhileStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'while'
	cond := p.parseExpression(precNone)
	body := p.parseBlock()
	return p.unit.EmitNode(astdb.KindWhileStmt, startTok, p.unit.Node(body).LastToken, cond, body)
}

func (p *Parser) parseForStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'for'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	binder := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	p.expect(astdb.TokIn)
	iter := p.parseExpression(precNone)
	body := p.parseBlock()
	return p.unit.EmitNode(astdb.KindForStmt, startTok, p.unit.Node(body).LastToken, binder, iter, body)
}

func (p *Parser) parseMatchStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'match'
	subject := p.parseExpression(precNone)
	children := []astdb.NodeId{subject}
	p.skipNewlines()
	for p.at(astdb.TokCase) {
		children = append(children, p.parseMatchArm())
		p.skipNewlines()
	}
	p.expect(astdb.TokEnd)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindMatchStmt, startTok, endTokId, children...)
}

func (p *Parser) parseMatchArm() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'case'
	pattern := p.parseExpression(precAssignment)
	p.expect(astdb.TokFatArrow)
	body := p.parseBlock()
	return p.unit.EmitNode(astdb.KindMatchArm, startTok, p.unit.Node(body).LastToken, pattern, body)
}

// parseUsingStmt implements the walrus-vs-type-annotation rule inside
// `using` (§4.4.3): after the binding name, a `:` immediately followed
// by `=` is the split walrus pair produced by the Token Mapper (a
// binding with no declared type); `:` followed by anything else
// introduces a type annotation before the value.
func (p *Parser) parseUsingStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'using'

	isShared := false
	if p.at(astdb.TokShared) {
		isShared = true
		p.advance()
	}

	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	children := []astdb.NodeId{name}

	if p.at(astdb.TokColon) && p.peek().Kind == astdb.TokAssign {
		p.advance() // ':'
		p.advance() // '='
	} else if p.at(astdb.TokColon) {
		p.advance() // ':'
		typeNode := p.parseTypeExpr()
		children = append(children, typeNode)
		p.expect(astdb.TokAssign)
	} else {
		p.expect(astdb.TokAssign)
	}

	value := p.parseExpression(precAssignment)
	children = append(children, value)
	body := p.parseBlock()
	children = append(children, body)

	kind := astdb.KindUsingResourceStmt
	if isShared {
		kind = astdb.KindUsingSharedStmt
	}
	return p.unit.EmitNode(kind, startTok, p.unit.Node(body).LastToken, children...)
}

func (p *Parser) parseTypeExpr() astdb.NodeId {
	tokId := p.curId()
	if p.at(astdb.TokLBracket) {
		p.advance()
		p.expect(astdb.TokRBracket)
		elem := p.parseTypeExpr()
		return p.unit.EmitNode(astdb.KindSliceType, tokId, p.unit.Node(elem).LastToken, elem)
	}
	p.expect(astdb.TokIdent)
	return p.unit.EmitNode(astdb.KindPrimitiveType, tokId, tokId)
}

func (p *Parser) parseNurseryStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'nursery'
	body := p.parseBlock()
	return p.unit.EmitNode(astdb.KindNurseryStmt, startTok, p.unit.Node(body).LastToken, body)
}

func (p *Parser) parseSelectStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'select'
	var children []astdb.NodeId
	p.skipNewlines()
	for p.at(astdb.TokCase) || p.at(astdb.TokTimeout) || p.at(astdb.TokDefault) {
		switch p.cur().Kind {
		case astdb.TokCase:
			caseTok := p.curId()
			p.advance()
			expr := p.parseExpression(precNone)
			body := p.parseBlock()
			children = append(children, p.unit.EmitNode(astdb.KindSelectCase, caseTok, p.unit.Node(body).LastToken, expr, body))
		case astdb.TokTimeout:
			tTok := p.curId()
			p.advance()
			dur := p.parseExpression(precNone)
			body := p.parseBlock()
			children = append(children, p.unit.EmitNode(astdb.KindSelectTimeout, tTok, p.unit.Node(body).LastToken, dur, body))
		case astdb.TokDefault:
			dTok := p.curId()
			p.advance()
			body := p.parseBlock()
			children = append(children, p.unit.EmitNode(astdb.KindSelectDefault, dTok, p.unit.Node(body).LastToken, body))
		}
		p.skipNewlines()
	}
	p.expect(astdb.TokEnd)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindSelectStmt, startTok, endTokId, children...)
}
