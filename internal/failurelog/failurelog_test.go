package failurelog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal/failurelog"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/repository"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newService(t *testing.T) (*failurelog.Service, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return failurelog.NewService(
		repository.NewMemory[failurelog.Entry](),
		failurelog.WithClock(c.Now),
	), c
}

func TestService_AppendAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, clk := newService(t)

	first, err := svc.Append(ctx, " a@x.io ", "mailbox full", "Spring sale")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "a@x.io", first.Email)
	assert.Equal(t, "mailbox full", first.Error)
	assert.Equal(t, "Spring sale", first.Campaign)
	assert.Equal(t, clk.now, first.Timestamp)

	clk.Advance(time.Minute)
	second, err := svc.Append(ctx, "b@x.io", "rejected", "")
	require.NoError(t, err)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "newest first")
	assert.Equal(t, first.ID, entries[1].ID)
}

func TestService_Remove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newService(t)

	e, err := svc.Append(ctx, "a@x.io", "x", "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, e.ID))
	require.ErrorIs(t, svc.Remove(ctx, e.ID), failurelog.ErrNotFound)
	require.ErrorIs(t, svc.Remove(ctx, ""), failurelog.ErrNotFound)
}

func TestService_RemoveMany(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.Append(ctx, "a@x.io", "x", "")
	require.NoError(t, err)
	b, err := svc.Append(ctx, "b@x.io", "x", "")
	require.NoError(t, err)
	c, err := svc.Append(ctx, "c@x.io", "x", "")
	require.NoError(t, err)

	n, err := svc.RemoveMany(ctx, []string{a.ID, "unknown", c.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, b.ID, entries[0].ID)
}

func TestService_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Append(ctx, "a@x.io", "x", "")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx))

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_FailedAddresses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newService(t)

	for _, addr := range []string{"a@x.io", "b@x.io", "a@x.io", "c@x.io"} {
		_, err := svc.Append(ctx, addr, "x", "")
		require.NoError(t, err)
	}

	got, err := svc.FailedAddresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c@x.io", "a@x.io", "b@x.io"}, got)
}

func TestService_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, clk := newService(t)

	_, err := svc.Append(ctx, "old@x.io", "x", "")
	require.NoError(t, err)
	clk.Advance(48 * time.Hour)
	recent, err := svc.Append(ctx, "new@x.io", "x", "")
	require.NoError(t, err)
	clk.Advance(time.Hour)

	n, err := svc.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, recent.ID, entries[0].ID)

	n, err = svc.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithout(t *testing.T) {
	t.Parallel()

	got := failurelog.Without(
		[]string{"a@x.io", "b@x.io", " c@x.io", "d@x.io"},
		[]string{"b@x.io", "c@x.io"},
	)
	assert.Equal(t, []string{"a@x.io", "d@x.io"}, got)
	assert.Equal(t, []string{}, failurelog.Without(nil, []string{"a@x.io"}))
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)

	d := dispatch.New(dispatch.TransportFunc(func(_ context.Context, msg dispatch.Message) error {
		if msg.To == "b@x.io" {
			return errors.New("550 mailbox unavailable")
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	rec := svc.Recorder(ctx, "Spring sale")
	cancel() // entries are still written after the request context ends

	_, err := d.Run(context.Background(), dispatch.Request{
		Recipients: []string{"a@x.io", "b@x.io", "broken"},
		Subject:    "Spring sale",
		HTML:       "<p>hi</p>",
	}, dispatch.NewToken(), dispatch.Discard, rec)
	require.NoError(t, err)

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1, "only transport failures are logged, not invalid addresses")
	assert.Equal(t, "b@x.io", entries[0].Email)
	assert.Equal(t, "550 mailbox unavailable", entries[0].Error)
	assert.Equal(t, "Spring sale", entries[0].Campaign)
}
