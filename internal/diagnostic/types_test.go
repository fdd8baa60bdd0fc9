package diagnostic

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndMerge(t *testing.T) {
	t.Parallel()

	var d Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning(CodeUnhiddenSource, "source is not hidden", token.Position{Filename: "a_test.go"}, "")
	assert.True(t, d.IsValid())

	var other Diagnostics
	other.AddError("invalid-directive", "unsupported property `name`",
		token.Position{Filename: "a_test.go", Line: 3, Column: 1}, "TestA")
	other.AddInfo(CodeGenerated, "wrote a_gen_test.go", token.Position{}, "")

	d.Merge(other)
	assert.True(t, d.HasErrors())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, DiagnosticError, d.All()[0].Severity)

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t, "a_test.go:3:1: TestA: [invalid-directive] unsupported property `name`", err.Error())
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"message only", Diagnostic{Message: "boom"}, "boom"},
		{"code", Diagnostic{Code: "x", Message: "boom"}, "[x] boom"},
		{"file only", Diagnostic{Message: "boom", Pos: token.Position{Filename: "f.go"}}, "f.go: boom"},
		{"function", Diagnostic{Message: "boom", Function: "TestF"}, "TestF: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestDiagnosticSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
