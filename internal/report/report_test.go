package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/kmallik/polycert/internal/constraint"
	"github.com/kmallik/polycert/internal/constraintgen"
)

func TestPhaseSummary_ReportsImplicationAndConstantCounts(t *testing.T) {
	result := constraintgen.Result{
		Implications: make([]constraint.ConstraintImplication, 3),
		Constants:    make([]constraint.ConstraintConstant, 2),
	}
	out := PhaseSummary(result)
	assert.Contains(t, out, "implications")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "constants")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "5")
}

func TestModel_SortsVariableNames(t *testing.T) {
	values := map[string]float64{"V_1": 2.5, "V_0": 1.0}
	out := Model(values, language.English)
	idxV0 := indexOf(out, "V_0")
	idxV1 := indexOf(out, "V_1")
	assert.True(t, idxV0 < idxV1, "V_0 should be rendered before V_1")
}

func TestDiagnostic_WrapsLongMessage(t *testing.T) {
	out := Diagnostic("solver exited with a nonzero status and no readable result file was produced on disk")
	assert.NotEmpty(t, out)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
