package diagnostics

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
)

// Query is a small boolean filter-expression sub-language over a
// diagnostic's severity and code, e.g.:
//
//	severity=error and code~"R0*"
//	code=P0001 or code=P0002
//
// This is a deliberately tiny, separate grammar from the source language
// parser (which remains hand-written Pratt/recursive-descent); participle
// is the right tool for a throwaway filter DSL.
type Query struct {
	Or []*AndTerm `parser:"@@ ('or' @@)*"`
}

type AndTerm struct {
	And []*Comparison `parser:"@@ ('and' @@)*"`
}

type Comparison struct {
	Negate bool   `parser:"@'not'?"`
	Field  string `parser:"@('severity' | 'code')"`
	Op     string `parser:"@('=' | '~')"`
	Value  string `parser:"@(Ident | String)"`
}

var parserOnce sync.Once
var queryParser *participle.Parser[Query]

func buildParser() *participle.Parser[Query] {
	parserOnce.Do(func() {
		p, err := participle.Build[Query]()
		if err != nil {
			panic(err)
		}
		queryParser = p
	})
	return queryParser
}

// ParseQuery compiles a filter expression into a predicate over Diagnostic.
func ParseQuery(expr string) (func(Diagnostic) bool, error) {
	p := buildParser()
	q, err := p.ParseString("", expr)
	if err != nil {
		return nil, err
	}
	return q.eval, nil
}

func (q *Query) eval(d Diagnostic) bool {
	for _, and := range q.Or {
		if and.eval(d) {
			return true
		}
	}
	return false
}

func (a *AndTerm) eval(d Diagnostic) bool {
	for _, c := range a.And {
		if !c.eval(d) {
			return false
		}
	}
	return true
}

func (c *Comparison) eval(d Diagnostic) bool {
	var result bool
	switch c.Field {
	case "severity":
		result = strings.EqualFold(d.Severity.String(), trimQuotes(c.Value))
	case "code":
		value := trimQuotes(c.Value)
		if c.Op == "~" {
			matched, _ := filepath.Match(value, string(d.Code))
			result = matched
		} else {
			result = string(d.Code) == value
		}
	}
	if c.Negate {
		return !result
	}
	return result
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Query runs expr against the engine's accumulated diagnostics, in
// emission order.
func (e *Engine) Query(expr string) ([]Diagnostic, error) {
	pred, err := ParseQuery(expr)
	if err != nil {
		return nil, err
	}
	return e.Filter(pred), nil
}
