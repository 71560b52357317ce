package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalPipelinePath(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"pipelines/bgg_refresh.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "pipelines/bgg_refresh.hcl", cfg.PipelinePath)
	assert.Equal(t, "modules", cfg.ModulesPath)
	assert.False(t, cfg.Once)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_Flags(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-p", "my.hcl",
		"-once",
		"-schedule", "0 4 * * 1",
		"-workers", "8",
		"-log-level", "DEBUG",
		"-log-format", "json",
		"-healthcheck-port", "8080",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "my.hcl", cfg.PipelinePath)
	assert.True(t, cfg.Once)
	assert.Equal(t, "0 4 * * 1", cfg.Schedule)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.HealthcheckPort)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "yaml", "p.hcl"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "trace", "p.hcl"}, &out)
	require.Error(t, err)
}

func TestParse_InvalidWorkerCount(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"-workers", "0", "p.hcl"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"--no-such-flag"}, &out)
	require.Error(t, err)
}
