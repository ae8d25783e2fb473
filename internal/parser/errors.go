package parser

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/diagnostics"
)

func diagErr(tok astdb.Token, msg string) diagnostics.Diagnostic {
	return diagnostics.New(diagnostics.ErrP0001UnexpectedToken, spanOf(tok), msg)
}
