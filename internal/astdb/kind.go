package astdb

// TokenKind is the ASTDB-side token kind, produced by the Token Mapper
// from the external tokenizer's source-kind stream (§4.3, §6).
type TokenKind int

const (
	TokInvalid TokenKind = iota
	TokEOF
	TokNewline

	// Identifiers and literals.
	TokIdent
	TokInteger
	TokFloat
	TokString
	TokChar
	TokBool
	TokNull
	TokUnderscore

	// Keywords.
	TokFunc
	TokLet
	TokVar
	TokConst
	TokIf
	TokElse
	TokFor
	TokWhile
	TokDo
	TokEnd
	TokReturn
	TokFail
	TokDefer
	TokBreak
	TokContinue
	TokMatch
	TokWhen
	TokUnless // first-class keyword, not folded into TokInvalid
	TokUse
	TokUsing
	TokImport
	TokGraft
	TokZig
	TokPub
	TokStruct
	TokEnum
	TokUnion
	TokErrorKw
	TokExtern
	TokAsync
	TokAwait
	TokNursery
	TokSpawn
	TokShared
	TokSelect
	TokTimeout
	TokCase
	TokDefault
	TokTest
	TokRequires
	TokEnsures
	TokInvariant
	TokGhost
	TokIn
	TokType
	TokTrue
	TokFalse
	TokNullKw
	TokAnd
	TokOr
	TokNot
	TokForeign // dedicated keyword, not folded into TokInvalid

	// Punctuation & operators.
	TokColon
	TokAssign   // =
	TokWalrus   // never emitted directly: split into TokColon, TokAssign
	TokPlusAssign
	TokMinusAssign
	TokStarAssign
	TokSlashAssign
	TokPercentAssign
	TokAmpAssign
	TokPipeAssign
	TokCaretAssign
	TokShlAssign
	TokShrAssign
	TokPipeGt // |>
	TokQQ     // ??
	TokQDot   // ?.
	TokDotDot // ..
	TokDotDotLt // ..<
	TokArrow    // ->
	TokFatArrow // =>
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokPower
	TokAmp
	TokPipe
	TokCaret
	TokShl
	TokShr
	TokEq
	TokNotEq
	TokLt
	TokLtEq
	TokGt
	TokGtEq
	TokBang
	TokTilde
	TokQuestion
	TokDot
	TokComma
	TokSemicolon
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
)

var tokenKindNames = map[TokenKind]string{
	TokInvalid: "invalid", TokEOF: "eof", TokNewline: "newline",
	TokIdent: "ident", TokInteger: "integer", TokFloat: "float", TokString: "string",
	TokChar: "char", TokBool: "bool", TokNull: "null", TokUnderscore: "underscore",
	TokFunc: "func", TokLet: "let", TokVar: "var", TokConst: "const", TokIf: "if",
	TokElse: "else", TokFor: "for", TokWhile: "while", TokDo: "do", TokEnd: "end",
	TokReturn: "return", TokFail: "fail", TokDefer: "defer", TokBreak: "break",
	TokContinue: "continue", TokMatch: "match", TokWhen: "when", TokUnless: "unless",
	TokUse: "use", TokUsing: "using", TokImport: "import", TokGraft: "graft",
	TokZig: "zig", TokPub: "pub", TokStruct: "struct", TokEnum: "enum", TokUnion: "union",
	TokErrorKw: "error", TokExtern: "extern", TokAsync: "async", TokAwait: "await",
	TokNursery: "nursery", TokSpawn: "spawn", TokShared: "shared", TokSelect: "select",
	TokTimeout: "timeout", TokCase: "case", TokDefault: "default", TokTest: "test",
	TokRequires: "requires", TokEnsures: "ensures", TokInvariant: "invariant",
	TokGhost: "ghost", TokIn: "in", TokType: "type", TokTrue: "true", TokFalse: "false",
	TokNullKw: "null_kw", TokAnd: "and", TokOr: "or", TokNot: "not", TokForeign: "foreign",
}

// String returns the gate-matchable name for a TokenKind; punctuation
// and operator kinds (which no profile gate restricts) fall back to
// "token".
func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "token"
}

// NodeKind is the ASTDB node kind taxonomy (§3.3), grouped by family.
// Node kinds are tagged sum-type variants, not a class hierarchy.
type NodeKind int

const (
	KindInvalid NodeKind = iota

	// Declarations.
	KindSourceFile
	KindFuncDecl
	KindAsyncFuncDecl
	KindExternFunc
	KindStructDecl
	KindEnumDecl
	KindUnionDecl
	KindErrorDecl
	KindTestDecl
	KindConstStmt
	KindLetStmt
	KindVarStmt
	KindImportStmt
	KindUseStmt
	KindUseSelective
	KindUseZig
	KindUsingDecl
	KindUsingResourceStmt
	KindUsingSharedStmt
	KindGraft
	KindForeignBlock // supplemented: dedicated node kind for `foreign ... as IDENT do ... end`

	// Statements.
	KindReturnStmt
	KindFailStmt
	KindDeferStmt
	KindBreakStmt
	KindContinueStmt
	KindIfStmt
	KindWhileStmt
	KindForStmt
	KindMatchStmt
	KindMatchArm
	KindBlockStmt
	KindExprStmt
	KindNurseryStmt
	KindSelectStmt
	KindSelectCase
	KindSelectTimeout
	KindSelectDefault
	KindPostfixWhen
	KindPostfixUnless
	KindRequiresClause
	KindEnsuresClause
	KindInvariantClause

	// Expressions.
	KindBinaryExpr
	KindUnaryExpr
	KindCallExpr
	KindFieldExpr
	KindIndexExpr
	KindSliceInclusiveExpr
	KindSliceExclusiveExpr
	KindRangeInclusiveExpr
	KindRangeExclusiveExpr
	KindTryExpr
	KindCatchExpr
	KindAwaitExpr
	KindSpawnExpr
	KindStructLiteral
	KindArrayLit

	// Literals.
	KindIntegerLiteral
	KindFloatLiteral
	KindStringLiteral
	KindCharLiteral
	KindBoolLiteral
	KindNullLiteral
	KindIdentifier

	// Types.
	KindPrimitiveType
	KindArrayType
	KindSliceType
	KindPointerType
	KindOptionalType
	KindErrorUnionType
)

var nodeKindNames = map[NodeKind]string{
	KindInvalid: "invalid", KindSourceFile: "source_file", KindFuncDecl: "func_decl",
	KindAsyncFuncDecl: "async_func_decl", KindExternFunc: "extern_func",
	KindStructDecl: "struct_decl", KindEnumDecl: "enum_decl", KindUnionDecl: "union_decl",
	KindErrorDecl: "error_decl", KindTestDecl: "test_decl", KindConstStmt: "const_stmt",
	KindLetStmt: "let_stmt", KindVarStmt: "var_stmt", KindImportStmt: "import_stmt",
	KindUseStmt: "use_stmt", KindUseSelective: "use_selective", KindUseZig: "use_zig",
	KindUsingDecl: "using_decl", KindUsingResourceStmt: "using_resource_stmt",
	KindUsingSharedStmt: "using_shared_stmt", KindGraft: "graft",
	KindForeignBlock: "foreign_block",
	KindReturnStmt: "return_stmt", KindFailStmt: "fail_stmt", KindDeferStmt: "defer_stmt",
	KindBreakStmt: "break_stmt", KindContinueStmt: "continue_stmt", KindIfStmt: "if_stmt",
	KindWhileStmt: "while_stmt", KindForStmt: "for_stmt", KindMatchStmt: "match_stmt",
	KindMatchArm: "match_arm", KindBlockStmt: "block_stmt", KindExprStmt: "expr_stmt",
	KindNurseryStmt: "nursery_stmt", KindSelectStmt: "select_stmt",
	KindSelectCase: "select_case", KindSelectTimeout: "select_timeout",
	KindSelectDefault: "select_default", KindPostfixWhen: "postfix_when",
	KindPostfixUnless: "postfix_unless", KindRequiresClause: "requires_clause",
	KindEnsuresClause: "ensures_clause", KindInvariantClause: "invariant_clause",
	KindBinaryExpr: "binary_expr", KindUnaryExpr: "unary_expr", KindCallExpr: "call_expr",
	KindFieldExpr: "field_expr", KindIndexExpr: "index_expr",
	KindSliceInclusiveExpr: "slice_inclusive_expr", KindSliceExclusiveExpr: "slice_exclusive_expr",
	KindRangeInclusiveExpr: "range_inclusive_expr", KindRangeExclusiveExpr: "range_exclusive_expr",
	KindTryExpr: "try_expr", KindCatchExpr: "catch_expr", KindAwaitExpr: "await_expr",
	KindSpawnExpr: "spawn_expr", KindStructLiteral: "struct_literal", KindArrayLit: "array_lit",
	KindIntegerLiteral: "integer_literal", KindFloatLiteral: "float_literal",
	KindStringLiteral: "string_literal", KindCharLiteral: "char_literal",
	KindBoolLiteral: "bool_literal", KindNullLiteral: "null_literal", KindIdentifier: "identifier",
	KindPrimitiveType: "primitive_type", KindArrayType: "array_type", KindSliceType: "slice_type",
	KindPointerType: "pointer_type", KindOptionalType: "optional_type",
	KindErrorUnionType: "error_union_type",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "unknown_kind"
}
