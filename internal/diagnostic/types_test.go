package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_ErrorAggregation(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.HasErrors())
	require.NoError(t, d.Error())

	d.AddWarning("all_arms_skipped", "every arm is skipped", "Method <-> pb.HttpMethod", "")
	assert.False(t, d.HasErrors())

	d.AddError("unsupported_shape", "variant Both: struct payload is not supported", "Shape", "Both")
	d.AddErrorWithSuggestions("unknown_field", "no external field Nmae", "Task", "Nmae", []string{"Name"})

	require.True(t, d.HasErrors())
	err := d.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Shape] Both: [unsupported_shape]")
	assert.Contains(t, err.Error(), "(did you mean Name?)")
	assert.Len(t, d.All(), 3)
	assert.Equal(t, DiagnosticError, d.All()[0].Severity)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo("no_fields", "type has no fields", "Empty", "")
	b.AddError("plan_failed", "boom", "", "")
	b.AddWarning("w", "careful", "", "")

	a.Merge(b)

	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
}

func TestDiagnostic_String(t *testing.T) {
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
	assert.Equal(t, "[c] msg", Diagnostic{Code: "c", Message: "msg"}.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
