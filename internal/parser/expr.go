package parser

import "github.com/lattice-lang/astcore/internal/astdb"

// parseExpression implements precedence-climbing Pratt parsing (§4.4):
// minPrec is the lowest-binding operator this call is willing to
// consume; callers recursing for a right-hand operand pass the current
// operator's own precedence (or one less, for `**`'s right-associativity).
func (p *Parser) parseExpression(minPrec int) astdb.NodeId {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.unit.Diagnostics.Report(diagErr(p.cur(), "expression too complex: recursion depth limit exceeded"))
			p.inRecursionRecovery = true
		}
		return p.emitInvalid()
	}

	left := p.parsePrefix()

	for {
		kind := p.cur().Kind
		prec, ok := binaryPrecedence[kind]
		if !ok || prec <= minPrec {
			break
		}

		switch kind {
		case astdb.TokLParen:
			left = p.parseCallTail(left)
		case astdb.TokLBracket:
			left = p.parseIndexOrSliceTail(left)
		case astdb.TokDot, astdb.TokQDot:
			left = p.parseFieldTail(left, kind)
		case astdb.TokQuestion:
			left = p.parseTryTail(left)
		case astdb.TokPipeGt:
			left = p.parsePipelineTail(left)
		default:
			left = p.parseBinaryTail(left, kind, prec)
		}
	}

	return left
}

func (p *Parser) parseBinaryTail(left astdb.NodeId, kind astdb.TokenKind, prec int) astdb.NodeId {
	firstTok := p.unit.Node(left).FirstToken
	p.advance() // consume operator
	nextMinPrec := prec
	if rightAssoc(kind) {
		nextMinPrec = prec - 1
	}
	right := p.parseExpression(nextMinPrec)
	lastTok := p.unit.Node(right).LastToken
	return p.unit.EmitNode(astdb.KindBinaryExpr, firstTok, lastTok, left, right)
}

// parsePrefix handles unary operators and falls through to primary
// expressions.
func (p *Parser) parsePrefix() astdb.NodeId {
	switch p.cur().Kind {
	case astdb.TokBang, astdb.TokMinus, astdb.TokTilde, astdb.TokNot:
		opTokId := p.curId()
		p.advance()
		operand := p.parseExpression(precUnary)
		lastTok := p.unit.Node(operand).LastToken
		return p.unit.EmitNode(astdb.KindUnaryExpr, opTokId, lastTok, operand)
	case astdb.TokAwait:
		startTok := p.curId()
		p.advance()
		operand := p.parseExpression(precUnary)
		lastTok := p.unit.Node(operand).LastToken
		return p.unit.EmitNode(astdb.KindAwaitExpr, startTok, lastTok, operand)
	case astdb.TokSpawn:
		startTok := p.curId()
		p.advance()
		operand := p.parseExpression(precUnary)
		lastTok := p.unit.Node(operand).LastToken
		return p.unit.EmitNode(astdb.KindSpawnExpr, startTok, lastTok, operand)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() astdb.NodeId {
	tok := p.cur()
	tokId := p.curId()

	switch tok.Kind {
	case astdb.TokInteger:
		p.advance()
		return p.unit.EmitNode(astdb.KindIntegerLiteral, tokId, tokId)
	case astdb.TokFloat:
		p.advance()
		return p.unit.EmitNode(astdb.KindFloatLiteral, tokId, tokId)
	case astdb.TokString:
		p.advance()
		return p.unit.EmitNode(astdb.KindStringLiteral, tokId, tokId)
	case astdb.TokChar:
		p.advance()
		return p.unit.EmitNode(astdb.KindCharLiteral, tokId, tokId)
	case astdb.TokTrue, astdb.TokFalse:
		p.advance()
		return p.unit.EmitNode(astdb.KindBoolLiteral, tokId, tokId)
	case astdb.TokNull, astdb.TokNullKw:
		p.advance()
		return p.unit.EmitNode(astdb.KindNullLiteral, tokId, tokId)
	case astdb.TokIdent, astdb.TokUnderscore:
		p.advance()
		ident := p.unit.EmitNode(astdb.KindIdentifier, tokId, tokId)
		if p.at(astdb.TokLBrace) && p.looksLikeStructLiteral() {
			return p.parseStructLiteralTail(ident, tokId)
		}
		return ident
	case astdb.TokLParen:
		p.advance()
		inner := p.parseExpression(precNone)
		p.expect(astdb.TokRParen)
		return inner
	case astdb.TokLBracket:
		return p.parseArrayLiteral()
	default:
		p.unit.Diagnostics.Report(diagErr(tok, "unexpected token in expression"))
		return p.emitInvalid()
	}
}

// emitInvalid synthesizes a placeholder node for a token no primary
// production accepts, consuming that token so every caller looping on
// parseExpression results (call args, array/struct literal elements)
// makes forward progress even on malformed input.
func (p *Parser) emitInvalid() astdb.NodeId {
	tokId := p.curId()
	if !p.at(astdb.TokEOF) {
		p.advance()
	}
	return p.unit.EmitNode(astdb.KindInvalid, tokId, tokId)
}

// looksLikeStructLiteral implements the struct-literal-vs-block rule
// (§4.4.3): the brace is a struct literal iff it is immediately
// followed by `}`, or by `identifier ':'`.
func (p *Parser) looksLikeStructLiteral() bool {
	if p.peekAt(1).Kind == astdb.TokRBrace {
		return true
	}
	return p.peekAt(1).Kind == astdb.TokIdent && p.peekAt(2).Kind == astdb.TokColon
}

func (p *Parser) parseStructLiteralTail(typeIdent astdb.NodeId, startTok astdb.TokenId) astdb.NodeId {
	p.advance() // consume '{'
	children := []astdb.NodeId{typeIdent}
	p.skipNewlines()
	for !p.at(astdb.TokRBrace) && !p.at(astdb.TokEOF) {
		fieldTokId := p.curId()
		if p.at(astdb.TokIdent) {
			p.advance()
			fieldIdent := p.unit.EmitNode(astdb.KindIdentifier, fieldTokId, fieldTokId)
			p.expect(astdb.TokColon)
			value := p.parseExpression(precAssignment)
			children = append(children, fieldIdent, value)
		} else {
			p.errorUnexpected(astdb.TokIdent)
			p.advance()
		}
		p.skipNewlines()
		if p.at(astdb.TokComma) {
			p.advance()
			p.skipNewlines()
		}
	}
	endTok, _ := p.expect(astdb.TokRBrace)
	endTokId := p.curId()
	if endTok.Kind == astdb.TokRBrace {
		endTokId = astdb.TokenId(p.pos - 1)
	}
	return p.unit.EmitNode(astdb.KindStructLiteral, startTok, endTokId, children...)
}

func (p *Parser) parseArrayLiteral() astdb.NodeId {
	startTok := p.curId()
	p.advance() // consume '['
	var children []astdb.NodeId
	p.skipNewlines()
	for !p.at(astdb.TokRBracket) && !p.at(astdb.TokEOF) {
		children = append(children, p.parseExpression(precAssignment))
		p.skipNewlines()
		if p.at(astdb.TokComma) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(astdb.TokRBracket)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindArrayLit, startTok, endTokId, children...)
}

func (p *Parser) parseCallTail(callee astdb.NodeId) astdb.NodeId {
	firstTok := p.unit.Node(callee).FirstToken
	p.advance() // consume '('
	children := []astdb.NodeId{callee}
	p.skipNewlines()
	for !p.at(astdb.TokRParen) && !p.at(astdb.TokEOF) {
		// Named argument: `identifier ':' expr`, recognized by
		// lookahead so positional args starting with an identifier
		// used as a value aren't misread.
		if p.at(astdb.TokIdent) && p.peek().Kind == astdb.TokColon {
			nameTokId := p.curId()
			p.advance()
			nameNode := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
			p.advance() // consume ':'
			value := p.parseExpression(precAssignment)
			children = append(children, nameNode, value)
		} else {
			children = append(children, p.parseExpression(precAssignment))
		}
		p.skipNewlines()
		if p.at(astdb.TokComma) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(astdb.TokRParen)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindCallExpr, firstTok, endTokId, children...)
}

// parseIndexOrSliceTail implements the slice-vs-index rule (§4.4.3):
// scanning ahead inside `[...]` for `..`, `..<`, or `:` before the
// closing bracket indicates a slice.
func (p *Parser) parseIndexOrSliceTail(target astdb.NodeId) astdb.NodeId {
	firstTok := p.unit.Node(target).FirstToken
	p.advance() // consume '['

	if p.isSliceAhead() {
		var lo astdb.NodeId = astdb.NoNodeId
		if !p.at(astdb.TokDotDot) && !p.at(astdb.TokDotDotLt) && !p.at(astdb.TokColon) {
			lo = p.parseExpression(precRange)
		}
		inclusive := p.at(astdb.TokDotDot)
		p.advance() // consume '..' / '..<' / ':'
		var hi astdb.NodeId = astdb.NoNodeId
		if !p.at(astdb.TokRBracket) {
			hi = p.parseExpression(precAssignment)
		}
		p.expect(astdb.TokRBracket)
		endTokId := astdb.TokenId(p.pos - 1)

		children := []astdb.NodeId{target}
		if lo != astdb.NoNodeId {
			children = append(children, lo)
		}
		if hi != astdb.NoNodeId {
			children = append(children, hi)
		}
		kind := astdb.KindSliceExclusiveExpr
		if inclusive {
			kind = astdb.KindSliceInclusiveExpr
		}
		return p.unit.EmitNode(kind, firstTok, endTokId, children...)
	}

	idx := p.parseExpression(precAssignment)
	p.expect(astdb.TokRBracket)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindIndexExpr, firstTok, endTokId, target, idx)
}

// isSliceAhead scans tokens from the current position (just inside
// `[`) up to the matching `]` at bracket depth 0, looking for `..`,
// `..<`, or `:`.
func (p *Parser) isSliceAhead() bool {
	depth := 0
	for i := 0; ; i++ {
		tok := p.peekAt(i)
		switch tok.Kind {
		case astdb.TokEOF:
			return false
		case astdb.TokLBracket, astdb.TokLParen, astdb.TokLBrace:
			depth++
		case astdb.TokRBracket:
			if depth == 0 {
				return false
			}
			depth--
		case astdb.TokRParen, astdb.TokRBrace:
			depth--
		case astdb.TokDotDot, astdb.TokDotDotLt, astdb.TokColon:
			if depth == 0 {
				return true
			}
		}
	}
}

func (p *Parser) parseFieldTail(target astdb.NodeId, dotKind astdb.TokenKind) astdb.NodeId {
	firstTok := p.unit.Node(target).FirstToken
	p.advance() // consume '.' or '?.'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	_ = dotKind
	return p.unit.EmitNode(astdb.KindFieldExpr, firstTok, nameTokId, target, name)
}

func (p *Parser) parseTryTail(target astdb.NodeId) astdb.NodeId {
	firstTok := p.unit.Node(target).FirstToken
	qTokId := p.curId()
	p.advance() // consume '?'
	return p.unit.EmitNode(astdb.KindTryExpr, firstTok, qTokId, target)
}

// parsePipelineTail desugars `LHS |> RHS` per §4.4.2: RHS parses at
// call precedence to keep the chain left-associative, then the
// callee/argument edges are rebuilt with LHS spliced in as the first
// argument. Children are copied, never aliased, since appending to the
// edges column can reallocate and invalidate any retained slice.
func (p *Parser) parsePipelineTail(lhs astdb.NodeId) astdb.NodeId {
	firstTok := p.unit.Node(lhs).FirstToken
	p.advance() // consume '|>'
	rhs := p.parseExpression(precPipeline)
	rhsNode := p.unit.Node(rhs)
	lastTok := rhsNode.LastToken

	if rhsNode.Kind == astdb.KindCallExpr {
		rhsChildren := p.unit.Children(rhsNode)
		callee := rhsChildren[0]
		rest := append([]astdb.NodeId(nil), rhsChildren[1:]...)
		children := append([]astdb.NodeId{callee, lhs}, rest...)
		return p.unit.EmitNode(astdb.KindCallExpr, firstTok, lastTok, children...)
	}

	return p.unit.EmitNode(astdb.KindCallExpr, firstTok, lastTok, rhs, lhs)
}
