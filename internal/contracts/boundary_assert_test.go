package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-lang/astcore/internal/astdb"
)

// TestContractRoundTripStructuralFields exercises the multi-field
// structural assertions testify is suited for: checking every field of
// a built contract at once instead of one if-statement per field.
func TestContractRoundTripStructuralFields(t *testing.T) {
	in := EffectSystemInputContract{
		DeclId:       7,
		FunctionName: 42,
		FunctionNode: 3,
		Parameters: []EffectParameter{
			{Name: 1, TypeInfo: "Int", IsCapability: false},
			{Name: 2, TypeInfo: "io.Writer", IsCapability: true},
		},
		ReturnType: "Bool",
		HasReturn:  true,
	}
	require.NoError(t, in.Validate())
	assert.EqualValues(t, 7, in.DeclId)
	assert.Len(t, in.Parameters, 2)
	assert.True(t, in.Parameters[1].IsCapability)
	assert.False(t, in.Parameters[0].IsCapability)

	out := EffectSystemOutputContract{
		Success:              false,
		DetectedEffects:      []astdb.StrId{1, 2},
		RequiredCapabilities: []astdb.StrId{2},
		ValidationErrors: []EffectValidationError{
			{Kind: EffectMissingCapability, Message: "missing io capability"},
		},
	}
	assert.NoError(t, out.Validate())
	assert.Equal(t, EffectMissingCapability, out.ValidationErrors[0].Kind)
}

func TestComptimeContractRoundTripStructuralFields(t *testing.T) {
	in := ComptimeVMInputContract{
		DeclId:         3,
		ExpressionName: 9,
		ExpressionNode: 5,
		ExpressionType: ComptimeFunctionCall,
		Dependencies:   []astdb.NodeId{1, 2, 3},
	}
	require.NoError(t, in.Validate())
	assert.Equal(t, ComptimeFunctionCall, in.ExpressionType)
	assert.Len(t, in.Dependencies, 3)

	out := ComptimeVMOutputContract{
		Success:        true,
		ResultValue:    42,
		HasResultValue: true,
		ResultType:     "Int",
		HasResultType:  true,
		ShouldCache:    true,
	}
	require.NoError(t, out.Validate())
	assert.Equal(t, 42, out.ResultValue)
	assert.True(t, out.ShouldCache)
}
