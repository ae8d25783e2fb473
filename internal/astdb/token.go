package astdb

// Span holds byte/line/column bounds for a token (§3.2). Parser-level
// nodes don't carry their own Span; they carry FirstToken/LastToken and
// readers resolve spans by looking up those tokens' Span fields.
type Span struct {
	StartByte, EndByte int
	Line, Column       int
	EndLine, EndColumn int
}

// Token is the ASTDB-side token record (§3.2). Str is populated for
// identifier/literal-bearing kinds; other kinds leave it at the zero
// StrId (which the Interner reserves for "").
type Token struct {
	Kind      TokenKind
	Str       StrId
	HasStr    bool
	Span      Span
	TriviaLo  int
	TriviaHi  int
}
