package delay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunDelay(t *testing.T) {
	t.Parallel()

	out, err := onRunDelay(context.Background(), &Deps{}, &Input{Duration: "1ms"})
	require.NoError(t, err)
	assert.Equal(t, "1ms", out.Waited)
}

func TestOnRunDelay_InvalidDuration(t *testing.T) {
	t.Parallel()

	_, err := onRunDelay(context.Background(), &Deps{}, &Input{Duration: "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestOnRunDelay_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := onRunDelay(ctx, &Deps{}, &Input{Duration: time.Minute.String()})
	require.ErrorIs(t, err, context.Canceled)
}
