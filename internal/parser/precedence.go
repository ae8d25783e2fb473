package parser

import "github.com/lattice-lang/astcore/internal/astdb"

// Precedence levels, low to high, per §4.4.1.
const (
	precNone       = iota
	precAssignment // =, :=, +=, ...
	precLogicalOr
	precNullCoalesce // ??
	precLogicalAnd
	precEquality   // ==, !=
	precComparison // <, <=, >, >=
	precBitwiseOr  // |
	precBitwiseXor // ^
	precBitwiseAnd // &
	precShift      // <<, >>
	precRange      // .. ..<
	precTerm       // + -
	precFactor     // * / %
	precPower      // ** (right-assoc)
	precUnary      // ! - ~ not
	precPipeline   // |>
	precCall       // . ?. () [] ? catch
)

var binaryPrecedence = map[astdb.TokenKind]int{
	astdb.TokAssign: precAssignment, astdb.TokPlusAssign: precAssignment,
	astdb.TokMinusAssign: precAssignment, astdb.TokStarAssign: precAssignment,
	astdb.TokSlashAssign: precAssignment, astdb.TokPercentAssign: precAssignment,
	astdb.TokAmpAssign: precAssignment, astdb.TokPipeAssign: precAssignment,
	astdb.TokCaretAssign: precAssignment, astdb.TokShlAssign: precAssignment,
	astdb.TokShrAssign: precAssignment,

	astdb.TokOr:  precLogicalOr,
	astdb.TokQQ:  precNullCoalesce,
	astdb.TokAnd: precLogicalAnd,

	astdb.TokEq: precEquality, astdb.TokNotEq: precEquality,

	astdb.TokLt: precComparison, astdb.TokLtEq: precComparison,
	astdb.TokGt: precComparison, astdb.TokGtEq: precComparison,

	astdb.TokPipe:  precBitwiseOr,
	astdb.TokCaret: precBitwiseXor,
	astdb.TokAmp:   precBitwiseAnd,

	astdb.TokShl: precShift, astdb.TokShr: precShift,

	astdb.TokDotDot: precRange, astdb.TokDotDotLt: precRange,

	astdb.TokPlus: precTerm, astdb.TokMinus: precTerm,

	astdb.TokStar: precFactor, astdb.TokSlash: precFactor, astdb.TokPercent: precFactor,

	astdb.TokPower: precPower,

	astdb.TokPipeGt: precPipeline,

	astdb.TokDot: precCall, astdb.TokQDot: precCall, astdb.TokLParen: precCall,
	astdb.TokLBracket: precCall, astdb.TokQuestion: precCall,
}

// rightAssoc reports whether kind's binary operator associates right
// to left; only `**` does (§4.4.1).
func rightAssoc(kind astdb.TokenKind) bool {
	return kind == astdb.TokPower
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := binaryPrecedence[p.cur().Kind]; ok {
		return prec
	}
	return precNone
}
