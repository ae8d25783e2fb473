package diagnostics

import "testing"

func TestParseQuerySeverityEquals(t *testing.T) {
	pred, err := ParseQuery(`severity = error`)
	if err != nil {
		t.Fatal(err)
	}
	if !pred(Diagnostic{Severity: Error}) {
		t.Fatal("expected an Error-severity diagnostic to match")
	}
	if pred(Diagnostic{Severity: Warning}) {
		t.Fatal("expected a Warning-severity diagnostic not to match")
	}
}

func TestParseQueryCodeGlob(t *testing.T) {
	pred, err := ParseQuery(`code ~ "R0*"`)
	if err != nil {
		t.Fatal(err)
	}
	if !pred(Diagnostic{Code: ErrR0001NoMatchingImpl}) {
		t.Fatal("expected R0001 to match the R0* glob")
	}
	if pred(Diagnostic{Code: ErrP0001UnexpectedToken}) {
		t.Fatal("expected P0001 not to match the R0* glob")
	}
}

func TestParseQueryOrAndNot(t *testing.T) {
	pred, err := ParseQuery(`code = P0001 or not severity = error`)
	if err != nil {
		t.Fatal(err)
	}
	if !pred(Diagnostic{Code: ErrP0001UnexpectedToken, Severity: Error}) {
		t.Fatal("expected the first disjunct to match on code alone")
	}
	if !pred(Diagnostic{Code: ErrR0001NoMatchingImpl, Severity: Warning}) {
		t.Fatal("expected the second disjunct to match a non-error severity")
	}
	if pred(Diagnostic{Code: ErrR0001NoMatchingImpl, Severity: Error}) {
		t.Fatal("expected neither disjunct to match an error-severity non-P0001 diagnostic")
	}
}

func TestEngineQueryFiltersAccumulatedDiagnostics(t *testing.T) {
	e := NewEngine()
	e.Report(New(ErrP0001UnexpectedToken, Span{}, "parse error"))
	e.Report(New(ErrR0001NoMatchingImpl, Span{}, "resolve error"))

	got, err := e.Query(`code = R0001`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Message != "resolve error" {
		t.Fatalf("unexpected query result: %v", got)
	}
}
