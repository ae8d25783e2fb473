// Package contracts defines the boundary schemas exchanged with the two
// external collaborators named in §6: the Effect System and the Comptime
// VM. Neither system is implemented here; the core only needs to marshal
// a declaration's relevant fields out to whichever system is consuming
// it and validate what comes back, the same way ASTDB treats the raw
// tokenizer as an external producer it only consumes from.
package contracts

import (
	"fmt"

	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/diagnostics"
)

// MaxParameters bounds EffectSystemInputContract.Parameters (§6).
const MaxParameters = 100

// MaxDependencies bounds ComptimeVMInputContract.Dependencies (§6).
const MaxDependencies = 50

// EffectParameter describes one function parameter as handed to the
// effect system: its name, a caller-supplied type description, and
// whether it names a capability rather than an ordinary value.
type EffectParameter struct {
	Name         astdb.StrId
	TypeInfo     string
	IsCapability bool
}

// EffectSystemInputContract is produced by the Parser for one function
// declaration and consumed by the effect system.
type EffectSystemInputContract struct {
	DeclId       astdb.DeclId
	FunctionName astdb.StrId
	FunctionNode astdb.NodeId
	Parameters   []EffectParameter
	ReturnType   string
	HasReturn    bool
	SourceSpan   diagnostics.Span
}

// Validate reports a malformed input contract before it is handed
// across the boundary: an oversized parameter list is rejected the same
// way Bundle.Validate rejects a bytecode bundle missing its required
// fields, rather than letting the external system discover it.
func (c EffectSystemInputContract) Validate() error {
	if c.FunctionNode == astdb.NoNodeId {
		return fmt.Errorf("contracts: effect system input contract has no function node")
	}
	if len(c.Parameters) > MaxParameters {
		return fmt.Errorf("contracts: effect system input contract has %d parameters, exceeds max %d", len(c.Parameters), MaxParameters)
	}
	return nil
}

// EffectValidationErrorKind enumerates the ways an effect system
// response can report a problem (§6).
type EffectValidationErrorKind int

const (
	EffectInvalidEffect EffectValidationErrorKind = iota
	EffectMissingCapability
	EffectTypeMismatch
	EffectUnsupportedFeature
)

func (k EffectValidationErrorKind) String() string {
	switch k {
	case EffectInvalidEffect:
		return "invalid_effect"
	case EffectMissingCapability:
		return "missing_capability"
	case EffectTypeMismatch:
		return "type_mismatch"
	case EffectUnsupportedFeature:
		return "unsupported_feature"
	default:
		return "unknown"
	}
}

// EffectValidationError is one entry of an EffectSystemOutputContract's
// ValidationErrors.
type EffectValidationError struct {
	Kind    EffectValidationErrorKind
	Message string
	Span    diagnostics.Span
}

// EffectSystemOutputContract is produced by the effect system and
// consumed back by the Parser.
type EffectSystemOutputContract struct {
	Success              bool
	DetectedEffects      []astdb.StrId
	RequiredCapabilities []astdb.StrId
	ValidationErrors     []EffectValidationError
}

// Validate enforces the invariant from §6: a failed contract must carry
// at least one error, a successful one must carry none.
func (c EffectSystemOutputContract) Validate() error {
	if c.Success && len(c.ValidationErrors) != 0 {
		return fmt.Errorf("contracts: successful effect system output carries %d validation errors, want 0", len(c.ValidationErrors))
	}
	if !c.Success && len(c.ValidationErrors) == 0 {
		return fmt.Errorf("contracts: failed effect system output carries no validation errors")
	}
	return nil
}

// ComptimeExpressionKind enumerates the expression_type values a
// Comptime VM input contract may carry (§6).
type ComptimeExpressionKind int

const (
	ComptimeConstDeclaration ComptimeExpressionKind = iota
	ComptimeFunctionCall
	ComptimeTypeExpression
	ComptimeCompileTimeConstant
)

func (k ComptimeExpressionKind) String() string {
	switch k {
	case ComptimeConstDeclaration:
		return "const_declaration"
	case ComptimeFunctionCall:
		return "comptime_function_call"
	case ComptimeTypeExpression:
		return "type_expression"
	case ComptimeCompileTimeConstant:
		return "compile_time_constant"
	default:
		return "unknown"
	}
}

// ComptimeVMInputContract is produced by the Parser for one
// compile-time-evaluable expression and consumed by the Comptime VM.
type ComptimeVMInputContract struct {
	DeclId         astdb.DeclId
	ExpressionName astdb.StrId
	ExpressionNode astdb.NodeId
	ExpressionType ComptimeExpressionKind
	Dependencies   []astdb.NodeId
	SourceSpan     diagnostics.Span
}

// Validate rejects an oversized dependency list before it crosses the
// boundary (§6).
func (c ComptimeVMInputContract) Validate() error {
	if c.ExpressionNode == astdb.NoNodeId {
		return fmt.Errorf("contracts: comptime VM input contract has no expression node")
	}
	if len(c.Dependencies) > MaxDependencies {
		return fmt.Errorf("contracts: comptime VM input contract has %d dependencies, exceeds max %d", len(c.Dependencies), MaxDependencies)
	}
	return nil
}

// ComptimeEvaluationErrorKind enumerates the ways a Comptime VM
// response can report a problem (§6).
type ComptimeEvaluationErrorKind int

const (
	ComptimeUndefinedIdentifier ComptimeEvaluationErrorKind = iota
	ComptimeTypeMismatch
	ComptimeInfiniteRecursion
	ComptimeUnsupportedOperation
	ComptimeDependencyCycle
)

func (k ComptimeEvaluationErrorKind) String() string {
	switch k {
	case ComptimeUndefinedIdentifier:
		return "undefined_identifier"
	case ComptimeTypeMismatch:
		return "type_mismatch"
	case ComptimeInfiniteRecursion:
		return "infinite_recursion"
	case ComptimeUnsupportedOperation:
		return "unsupported_operation"
	case ComptimeDependencyCycle:
		return "dependency_cycle"
	default:
		return "unknown"
	}
}

// ComptimeEvaluationError is one entry of a ComptimeVMOutputContract's
// EvaluationErrors.
type ComptimeEvaluationError struct {
	Kind    ComptimeEvaluationErrorKind
	Message string
	Span    diagnostics.Span
}

// ComptimeVMOutputContract is produced by the Comptime VM and consumed
// back by the Parser.
type ComptimeVMOutputContract struct {
	Success          bool
	ResultValue      any
	HasResultValue   bool
	ResultType       string
	HasResultType    bool
	ShouldCache      bool
	EvaluationErrors []ComptimeEvaluationError
}

// Validate enforces the same success/error-count invariant the effect
// system output contract does.
func (c ComptimeVMOutputContract) Validate() error {
	if c.Success && len(c.EvaluationErrors) != 0 {
		return fmt.Errorf("contracts: successful comptime VM output carries %d evaluation errors, want 0", len(c.EvaluationErrors))
	}
	if !c.Success && len(c.EvaluationErrors) == 0 {
		return fmt.Errorf("contracts: failed comptime VM output carries no evaluation errors")
	}
	return nil
}
