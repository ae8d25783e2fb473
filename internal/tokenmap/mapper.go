package tokenmap

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/interner"
)

// totalMap is the total SourceKind -> astdb.TokenKind mapping (§4.3).
// Every SourceKind the tokenizer can emit has an entry; unmapped keys
// fall back to astdb.TokInvalid in Map, matching "unknown source kinds
// map to invalid" (§4.3 edge cases).
var totalMap = map[SourceKind]astdb.TokenKind{
	SrcFunc: astdb.TokFunc, SrcLet: astdb.TokLet, SrcVar: astdb.TokVar, SrcConst: astdb.TokConst,
	SrcIf: astdb.TokIf, SrcElse: astdb.TokElse, SrcFor: astdb.TokFor, SrcWhile: astdb.TokWhile,
	SrcDo: astdb.TokDo, SrcEnd: astdb.TokEnd, SrcReturn: astdb.TokReturn, SrcFail: astdb.TokFail,
	SrcDefer: astdb.TokDefer, SrcBreak: astdb.TokBreak, SrcContinue: astdb.TokContinue,
	SrcMatch: astdb.TokMatch, SrcWhen: astdb.TokWhen, SrcUnless: astdb.TokUnless,
	SrcUse: astdb.TokUse, SrcUsing: astdb.TokUsing, SrcImport: astdb.TokImport,
	SrcGraft: astdb.TokGraft, SrcZig: astdb.TokZig, SrcPub: astdb.TokPub,
	SrcStruct: astdb.TokStruct, SrcEnum: astdb.TokEnum, SrcUnion: astdb.TokUnion,
	SrcError: astdb.TokErrorKw, SrcExtern: astdb.TokExtern, SrcAsync: astdb.TokAsync,
	SrcAwait: astdb.TokAwait, SrcNursery: astdb.TokNursery, SrcSpawn: astdb.TokSpawn,
	SrcShared: astdb.TokShared, SrcSelect: astdb.TokSelect, SrcTimeout: astdb.TokTimeout,
	SrcCase: astdb.TokCase, SrcDefault: astdb.TokDefault, SrcTest: astdb.TokTest,
	SrcRequires: astdb.TokRequires, SrcEnsures: astdb.TokEnsures, SrcInvariant: astdb.TokInvariant,
	SrcGhost: astdb.TokGhost, SrcIn: astdb.TokIn, SrcType: astdb.TokType,
	SrcTrue: astdb.TokTrue, SrcFalse: astdb.TokFalse, SrcNull: astdb.TokNullKw,
	SrcAnd: astdb.TokAnd, SrcOr: astdb.TokOr, SrcNot: astdb.TokNot, SrcForeign: astdb.TokForeign,

	SrcIdent: astdb.TokIdent, SrcInt: astdb.TokInteger, SrcFloat: astdb.TokFloat,
	SrcString: astdb.TokString, SrcChar: astdb.TokChar,

	SrcPipeGt: astdb.TokPipeGt, SrcQQ: astdb.TokQQ, SrcQDot: astdb.TokQDot,
	SrcDotDot: astdb.TokDotDot, SrcDotDotLt: astdb.TokDotDotLt,
	SrcArrow: astdb.TokArrow, SrcFatArrow: astdb.TokFatArrow,

	SrcColon: astdb.TokColon, SrcAssign: astdb.TokAssign,
	SrcPlusEq: astdb.TokPlusAssign, SrcMinusEq: astdb.TokMinusAssign, SrcStarEq: astdb.TokStarAssign,
	SrcSlashEq: astdb.TokSlashAssign, SrcPercentEq: astdb.TokPercentAssign,
	SrcAmpEq: astdb.TokAmpAssign, SrcPipeEq: astdb.TokPipeAssign, SrcCaretEq: astdb.TokCaretAssign,
	SrcShlEq: astdb.TokShlAssign, SrcShrEq: astdb.TokShrAssign,
	SrcPlus: astdb.TokPlus, SrcMinus: astdb.TokMinus, SrcStar: astdb.TokStar, SrcSlash: astdb.TokSlash,
	SrcPercent: astdb.TokPercent, SrcPower: astdb.TokPower,
	SrcAmp: astdb.TokAmp, SrcPipe: astdb.TokPipe, SrcCaret: astdb.TokCaret,
	SrcShl: astdb.TokShl, SrcShr: astdb.TokShr,
	SrcEq: astdb.TokEq, SrcNotEq: astdb.TokNotEq, SrcLt: astdb.TokLt, SrcLtEq: astdb.TokLtEq,
	SrcGt: astdb.TokGt, SrcGtEq: astdb.TokGtEq, SrcBang: astdb.TokBang, SrcTilde: astdb.TokTilde,
	SrcQuestion: astdb.TokQuestion, SrcDot: astdb.TokDot, SrcComma: astdb.TokComma, SrcSemi: astdb.TokSemicolon,
	SrcLParen: astdb.TokLParen, SrcRParen: astdb.TokRParen, SrcLBrace: astdb.TokLBrace, SrcRBrace: astdb.TokRBrace,
	SrcLBracket: astdb.TokLBracket, SrcRBracket: astdb.TokRBracket,

	SrcNewline: astdb.TokNewline, SrcEOF: astdb.TokEOF, SrcInvalid: astdb.TokInvalid,
}

// kindsWithLexeme are the source kinds whose lexeme must be interned
// (§4.3: "intern the lexeme for identifier, integer, float, string,
// char, boolean, underscore").
var kindsWithLexeme = map[SourceKind]bool{
	SrcIdent: true, SrcInt: true, SrcFloat: true, SrcString: true, SrcChar: true,
	SrcTrue: true, SrcFalse: true,
}

// Map translates one tokenizer stream into ASTDB tokens, splitting any
// `:=` into two contiguous `:` `=` tokens (§3.2's walrus invariant) and
// interning lexemes per kindsWithLexeme. Spans are preserved byte-exact.
func Map(in *interner.Interner, tokens []SourceToken) []astdb.Token {
	out := make([]astdb.Token, 0, len(tokens)+4)
	for _, t := range tokens {
		if t.Kind == SrcColonEq {
			out = append(out, splitWalrus(t)...)
			continue
		}
		out = append(out, mapOne(in, t))
	}
	return out
}

func mapOne(in *interner.Interner, t SourceToken) astdb.Token {
	kind, ok := totalMap[t.Kind]
	if !ok {
		kind = astdb.TokInvalid
	}
	tok := astdb.Token{
		Kind: kind,
		Span: astdb.Span{
			StartByte: t.Span.StartByte, Line: t.Span.StartLine, Column: t.Span.StartCol,
			EndLine: t.Span.EndLine, EndColumn: t.Span.EndCol,
		},
	}
	tok.Span.EndByte = t.Span.EndByte
	if kindsWithLexeme[t.Kind] {
		tok.Str = in.InternString(t.Lexeme)
		tok.HasStr = true
	}
	return tok
}

// splitWalrus materializes a single `:=` tokenizer token as two ASTDB
// tokens with contiguous spans jointly covering the original range
// (§3.2). The `:` occupies the first byte/column, `=` the rest; no
// other token is ever split this way.
func splitWalrus(t SourceToken) []astdb.Token {
	mid := t.Span.StartByte + 1
	midCol := t.Span.StartCol + 1

	colon := astdb.Token{
		Kind: astdb.TokColon,
		Span: astdb.Span{
			StartByte: t.Span.StartByte, Line: t.Span.StartLine, Column: t.Span.StartCol,
			EndByte: mid, EndLine: t.Span.StartLine, EndColumn: midCol,
		},
	}
	assign := astdb.Token{
		Kind: astdb.TokAssign,
		Span: astdb.Span{
			StartByte: mid, Line: t.Span.StartLine, Column: midCol,
			EndByte: t.Span.EndByte, EndLine: t.Span.EndLine, EndColumn: t.Span.EndCol,
		},
	}
	return []astdb.Token{colon, assign}
}
