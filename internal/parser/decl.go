package parser

import "github.com/lattice-lang/astcore/internal/astdb"

// parseDeclaration parses one top-level (or nested) declaration. On
// failure it reports a diagnostic, discards the declaration's partial
// nodes back to the pre-parse watermark (§4.4.4), synchronizes to the
// next declaration-start keyword, and returns ok=false so ParseProgram
// omits it from source_file's children.
func (p *Parser) parseDeclaration() (astdb.NodeId, bool) {
	nodeWM, edgeWM := p.unit.Watermarks()

	isPub := false
	if p.at(astdb.TokPub) {
		isPub = true
		p.advance()
	}

	node, ok := p.parseDeclarationInner(isPub)
	if !ok {
		p.unit.DiscardTrailingNodes(nodeWM, edgeWM)
		p.synchronize()
		return astdb.NoNodeId, false
	}
	return node, true
}

func (p *Parser) parseDeclarationInner(isPub bool) (astdb.NodeId, bool) {
	_ = isPub // visibility is recorded structurally by declaration position; no wrapper node needed
	switch p.cur().Kind {
	case astdb.TokFunc:
		return p.parseFuncDecl(astdb.KindFuncDecl), true
	case astdb.TokAsync:
		return p.parseAsyncFuncDecl(), true
	case astdb.TokExtern:
		return p.parseExternFunc(), true
	case astdb.TokStruct:
		return p.parseStructDecl(), true
	case astdb.TokEnum:
		return p.parseEnumDecl(), true
	case astdb.TokUnion:
		return p.parseUnionDecl(), true
	case astdb.TokErrorKw:
		return p.parseErrorDecl(), true
	case astdb.TokTest:
		return p.parseTestDecl(), true
	case astdb.TokConst:
		return p.parseBindingStmt(astdb.TokConst, astdb.KindConstStmt), true
	case astdb.TokLet:
		return p.parseBindingStmt(astdb.TokLet, astdb.KindLetStmt), true
	case astdb.TokVar:
		return p.parseBindingStmt(astdb.TokVar, astdb.KindVarStmt), true
	case astdb.TokImport:
		return p.parseImportStmt(), true
	case astdb.TokUse:
		return p.parseUseForm(), true
	case astdb.TokUsing:
		return p.parseUsingStmt(), true
	default:
		p.unit.Diagnostics.Report(diagErr(p.cur(), "expected a declaration"))
		return astdb.NoNodeId, false
	}
}

func (p *Parser) parseFuncDecl(kind astdb.NodeKind) astdb.NodeId {
	return p.parseFuncDeclFrom(kind, p.curId())
}

func (p *Parser) parseFuncDeclFrom(kind astdb.NodeKind, startTok astdb.TokenId) astdb.NodeId {
	p.advance() // 'func'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	children := []astdb.NodeId{name}

	p.expect(astdb.TokLParen)
	p.skipNewlines()
	for !p.at(astdb.TokRParen) && !p.at(astdb.TokEOF) {
		before := p.pos
		paramTokId := p.curId()
		p.expect(astdb.TokIdent)
		paramName := p.unit.EmitNode(astdb.KindIdentifier, paramTokId, paramTokId)
		children = append(children, paramName)
		if p.at(astdb.TokColon) {
			p.advance()
			children = append(children, p.parseTypeExpr())
		}
		p.skipNewlines()
		if p.at(astdb.TokComma) {
			p.advance()
			p.skipNewlines()
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(astdb.TokRParen)

	if p.at(astdb.TokArrow) {
		p.advance()
		children = append(children, p.parseTypeExpr())
	}

	p.parseContractClauses(&children)

	body := p.parseBlock()
	children = append(children, body)
	return p.unit.EmitNode(kind, startTok, p.unit.Node(body).LastToken, children...)
}

func (p *Parser) parseAsyncFuncDecl() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'async'
	return p.parseFuncDeclFrom(astdb.KindAsyncFuncDecl, startTok)
}

func (p *Parser) parseExternFunc() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'extern'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	children := []astdb.NodeId{name}

	p.expect(astdb.TokLParen)
	for !p.at(astdb.TokRParen) && !p.at(astdb.TokEOF) {
		before := p.pos
		paramTokId := p.curId()
		p.expect(astdb.TokIdent)
		children = append(children, p.unit.EmitNode(astdb.KindIdentifier, paramTokId, paramTokId))
		if p.at(astdb.TokColon) {
			p.advance()
			children = append(children, p.parseTypeExpr())
		}
		if p.at(astdb.TokComma) {
			p.advance()
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(astdb.TokRParen)

	if p.at(astdb.TokArrow) {
		p.advance()
		children = append(children, p.parseTypeExpr())
	}
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindExternFunc, startTok, endTokId, children...)
}

// parseContractClauses parses any run of requires/ensures/invariant
// clauses preceding a function body (§4: Effect/Contract surface).
func (p *Parser) parseContractClauses(children *[]astdb.NodeId) {
	p.skipNewlines()
	for {
		switch p.cur().Kind {
		case astdb.TokRequires:
			startTok := p.curId()
			p.advance()
			cond := p.parseExpression(precNone)
			*children = append(*children, p.unit.EmitNode(astdb.KindRequiresClause, startTok, p.unit.Node(cond).LastToken, cond))
		case astdb.TokEnsures:
			startTok := p.curId()
			p.advance()
			cond := p.parseExpression(precNone)
			*children = append(*children, p.unit.EmitNode(astdb.KindEnsuresClause, startTok, p.unit.Node(cond).LastToken, cond))
		case astdb.TokInvariant:
			startTok := p.curId()
			p.advance()
			cond := p.parseExpression(precNone)
			*children = append(*children, p.unit.EmitNode(astdb.KindInvariantClause, startTok, p.unit.Node(cond).LastToken, cond))
		default:
			return
		}
		p.skipNewlines()
	}
}

func (p *Parser) parseStructDecl() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'struct'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	children := []astdb.NodeId{name}

	p.expect(astdb.TokDo)
	p.skipNewlines()
	for !p.at(astdb.TokEnd) && !p.at(astdb.TokEOF) {
		before := p.pos
		fieldTokId := p.curId()
		p.expect(astdb.TokIdent)
		fieldName := p.unit.EmitNode(astdb.KindIdentifier, fieldTokId, fieldTokId)
		p.expect(astdb.TokColon)
		fieldType := p.parseTypeExpr()
		children = append(children, fieldName, fieldType)
		p.skipNewlines()
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(astdb.TokEnd)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindStructDecl, startTok, endTokId, children...)
}

func (p *Parser) parseEnumDecl() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'enum'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	children := []astdb.NodeId{name}

	p.expect(astdb.TokDo)
	p.skipNewlines()
	for !p.at(astdb.TokEnd) && !p.at(astdb.TokEOF) {
		before := p.pos
		variantTokId := p.curId()
		p.expect(astdb.TokIdent)
		children = append(children, p.unit.EmitNode(astdb.KindIdentifier, variantTokId, variantTokId))
		p.skipNewlines()
		if p.at(astdb.TokComma) {
			p.advance()
			p.skipNewlines()
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(astdb.TokEnd)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindEnumDecl, startTok, endTokId, children...)
}

func (p *Parser) parseUnionDecl() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'union'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	children := []astdb.NodeId{name}

	p.expect(astdb.TokDo)
	p.skipNewlines()
	for !p.at(astdb.TokEnd) && !p.at(astdb.TokEOF) {
		before := p.pos
		variantTokId := p.curId()
		p.expect(astdb.TokIdent)
		variant := p.unit.EmitNode(astdb.KindIdentifier, variantTokId, variantTokId)
		variantChildren := []astdb.NodeId{variant}
		if p.at(astdb.TokLParen) {
			p.advance()
			for !p.at(astdb.TokRParen) && !p.at(astdb.TokEOF) {
				innerBefore := p.pos
				variantChildren = append(variantChildren, p.parseTypeExpr())
				if p.at(astdb.TokComma) {
					p.advance()
				}
				if p.pos == innerBefore {
					p.advance()
				}
			}
			p.expect(astdb.TokRParen)
		}
		children = append(children, variantChildren...)
		p.skipNewlines()
		if p.at(astdb.TokComma) {
			p.advance()
			p.skipNewlines()
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(astdb.TokEnd)
	endTokId := astdb.TokenId(p.pos - 1)
	return p.unit.EmitNode(astdb.KindUnionDecl, startTok, endTokId, children...)
}

func (p *Parser) parseErrorDecl() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'error'
	nameTokId := p.curId()
	p.expect(astdb.TokIdent)
	name := p.unit.EmitNode(astdb.KindIdentifier, nameTokId, nameTokId)
	endTokId := nameTokId
	children := []astdb.NodeId{name}
	if p.at(astdb.TokLParen) {
		p.advance()
		for !p.at(astdb.TokRParen) && !p.at(astdb.TokEOF) {
			before := p.pos
			fieldTokId := p.curId()
			p.expect(astdb.TokIdent)
			fieldName := p.unit.EmitNode(astdb.KindIdentifier, fieldTokId, fieldTokId)
			p.expect(astdb.TokColon)
			fieldType := p.parseTypeExpr()
			children = append(children, fieldName, fieldType)
			if p.at(astdb.TokComma) {
				p.advance()
			}
			if p.pos == before {
				p.advance()
			}
		}
		p.expect(astdb.TokRParen)
		endTokId = astdb.TokenId(p.pos - 1)
	}
	return p.unit.EmitNode(astdb.KindErrorDecl, startTok, endTokId, children...)
}

func (p *Parser) parseTestDecl() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'test'
	nameTokId := p.curId()
	p.expect(astdb.TokString)
	name := p.unit.EmitNode(astdb.KindStringLiteral, nameTokId, nameTokId)
	body := p.parseBlock()
	return p.unit.EmitNode(astdb.KindTestDecl, startTok, p.unit.Node(body).LastToken, name, body)
}

func (p *Parser) parseImportStmt() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'import'
	pathTokId := p.curId()
	p.expect(astdb.TokString)
	path := p.unit.EmitNode(astdb.KindStringLiteral, pathTokId, pathTokId)
	return p.unit.EmitNode(astdb.KindImportStmt, startTok, pathTokId, path)
}

// parseUseForm implements a fixed use-form precedence order resolving
// the `use` lookahead ambiguity:
//  1. `use zig "path"` - native-module graft.
//  2. `use IDENT = IDENT "string"` - graft with alias.
//  3. `use IDENT "string"` - unaliased graft; a string literal directly
//     after a lone identifier always wins over a module-path reading.
//  4. `use IDENT(.IDENT)*[.{IDENT (, IDENT)*}]` - module path, with
//     selective import chosen only when no string literal follows.
func (p *Parser) parseUseForm() astdb.NodeId {
	startTok := p.curId()
	p.advance() // 'use'

	if p.at(astdb.TokZig) {
		p.advance()
		pathTokId := p.curId()
		p.expect(astdb.TokString)
		path := p.unit.EmitNode(astdb.KindStringLiteral, pathTokId, pathTokId)
		return p.unit.EmitNode(astdb.KindUseZig, startTok, pathTokId, path)
	}

	firstTokId := p.curId()
	p.expect(astdb.TokIdent)
	firstIdent := p.unit.EmitNode(astdb.KindIdentifier, firstTokId, firstTokId)

	// Aliased graft: `IDENT = IDENT "string"`.
	if p.at(astdb.TokAssign) {
		p.advance()
		originTokId := p.curId()
		p.expect(astdb.TokIdent)
		origin := p.unit.EmitNode(astdb.KindIdentifier, originTokId, originTokId)
		pathTokId := p.curId()
		p.expect(astdb.TokString)
		path := p.unit.EmitNode(astdb.KindStringLiteral, pathTokId, pathTokId)
		return p.unit.EmitNode(astdb.KindGraft, startTok, pathTokId, firstIdent, origin, path)
	}

	// Unaliased graft: a string literal directly follows the lone
	// identifier, taking precedence over any module-path reading.
	if p.at(astdb.TokString) {
		pathTokId := p.curId()
		p.advance()
		path := p.unit.EmitNode(astdb.KindStringLiteral, pathTokId, pathTokId)
		return p.unit.EmitNode(astdb.KindGraft, startTok, pathTokId, firstIdent, path)
	}

	// Module path, optionally with a selective import.
	endTokId := firstTokId
	children := []astdb.NodeId{firstIdent}
	for p.at(astdb.TokDot) {
		if p.peek().Kind == astdb.TokLBrace {
			p.advance() // '.'
			p.advance() // '{'
			var names []astdb.NodeId
			for !p.at(astdb.TokRBrace) && !p.at(astdb.TokEOF) {
				before := p.pos
				memberTokId := p.curId()
				p.expect(astdb.TokIdent)
				names = append(names, p.unit.EmitNode(astdb.KindIdentifier, memberTokId, memberTokId))
				if p.at(astdb.TokComma) {
					p.advance()
				}
				if p.pos == before {
					p.advance()
				}
			}
			p.expect(astdb.TokRBrace)
			endTokId = astdb.TokenId(p.pos - 1)
			children = append(children, names...)
			return p.unit.EmitNode(astdb.KindUseSelective, startTok, endTokId, children...)
		}
		p.advance() // '.'
		segTokId := p.curId()
		p.expect(astdb.TokIdent)
		children = append(children, p.unit.EmitNode(astdb.KindIdentifier, segTokId, segTokId))
		endTokId = segTokId
	}

	return p.unit.EmitNode(astdb.KindUseStmt, startTok, endTokId, children...)
}
