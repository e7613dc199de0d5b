package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSteps_Idempotent(t *testing.T) {
	steps := NewRunner().Steps()
	assert.NotEmpty(t, steps)
	for _, step := range steps {
		assert.Contains(t, step.SQL, "IF NOT EXISTS", step.Name)
	}
	assert.True(t, strings.Contains(steps[0].SQL, "association_results"))
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
