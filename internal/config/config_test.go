package config

import (
	"testing"

	"zebu/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "SERVER_PORT", "ZEBU_PERMUTATIONS", "ZEBU_P_ADJUST", "ZEBU_SEED", "ZEBU_MAX_CELLS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Analysis.Permutations)
	assert.Equal(t, "BH", cfg.Analysis.PAdjust)
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
	assert.Equal(t, 1_000_000, cfg.Analysis.MaxCells)
	assert.GreaterOrEqual(t, cfg.Analysis.Workers, 1)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/zebu")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ZEBU_PERMUTATIONS", "250")
	t.Setenv("ZEBU_P_ADJUST", "holm")
	t.Setenv("ZEBU_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250, cfg.Analysis.Permutations)
	assert.Equal(t, "holm", cfg.Analysis.PAdjust)
	assert.Equal(t, 3, cfg.Analysis.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ZEBU_PERMUTATIONS", "0"},
		{"ZEBU_P_ADJUST", "sidak"},
		{"ZEBU_WORKERS", "-1"},
		{"ZEBU_DEFAULT_BREAKS", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
