package env_vars

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunEnvVars_PrefixFilter(t *testing.T) {
	t.Setenv("BGF_COMMIT_AUTHOR", "bot")
	t.Setenv("UNRELATED_VAR", "x")

	out, err := onRunEnvVars(context.Background(), &Deps{}, &Input{Prefix: "BGF_"})
	require.NoError(t, err)
	assert.Equal(t, "bot", out.All["COMMIT_AUTHOR"])
	assert.NotContains(t, out.All, "UNRELATED_VAR")
	assert.NotContains(t, out.All, "BGF_COMMIT_AUTHOR")
}

func TestOnRunEnvVars_NoPrefixReturnsEverything(t *testing.T) {
	t.Setenv("BGF_SOMETHING", "y")

	out, err := onRunEnvVars(context.Background(), &Deps{}, &Input{})
	require.NoError(t, err)
	assert.Equal(t, "y", out.All["BGF_SOMETHING"])
}
