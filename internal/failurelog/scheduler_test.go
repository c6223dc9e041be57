package failurelog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal/failurelog"
)

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	_, err := failurelog.NewScheduler(svc, "whenever", time.Hour)
	require.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, clk := newService(t)

	_, err := svc.Append(ctx, "old@x.io", "x", "")
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	s, err := failurelog.NewScheduler(svc, "@hourly", time.Hour)
	require.NoError(t, err)

	n, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScheduler_StartAndShutdown(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	s, err := failurelog.NewScheduler(svc, "*/5 * * * *", time.Hour)
	require.NoError(t, err)

	require.NoError(t, s.StartFunc()(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown()(ctx))
}
