package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNop())

	var order []string
	for _, name := range []string{"postgres", "redis", "http"} {
		c.Add(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "redis", "postgres"}, order)
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNop())
	boom := errors.New("boom")

	closed := 0
	c.Add("ok", func(ctx context.Context) error { closed++; return nil })
	c.Add("broken", func(ctx context.Context) error { return boom })

	err := c.Close(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 1, closed)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNop())

	calls := 0
	c.Add("once", func(ctx context.Context) error { calls++; return nil })

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloseForcesRemainingOnDeadline(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNop())

	var (
		mu     sync.Mutex
		forced bool
	)
	c.Add("first", func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		forced = true
		return nil
	})
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, forced)
}
