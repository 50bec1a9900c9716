package tr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughRunner struct {
	calls int
}

func (p *passthroughRunner) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func newTestManager(runner Runner) *Manager {
	m := NewRetryingManager(runner, logger.NewNop())
	m.baseDelay = time.Millisecond
	m.maxDelay = 2 * time.Millisecond
	return m
}

func TestManagerRetriesSerializationFailure(t *testing.T) {
	runner := &passthroughRunner{}
	m := newTestManager(runner)

	attempts := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("insert payment: %w", &pgconn.PgError{Code: pgerrcode.SerializationFailure})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, runner.calls)
}

func TestManagerGivesUpAfterMaxRetries(t *testing.T) {
	m := newTestManager(&passthroughRunner{})

	attempts := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	})

	require.Error(t, err)
	assert.Equal(t, defaultMaxRetries+1, attempts)
}

func TestManagerDoesNotRetryOtherErrors(t *testing.T) {
	m := newTestManager(&passthroughRunner{})
	boom := errors.New("boom")

	attempts := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestManagerNestedCallsDoNotRetry(t *testing.T) {
	m := newTestManager(&passthroughRunner{})

	inner := 0
	outer := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		outer++
		return m.Do(ctx, func(ctx context.Context) error {
			inner++
			if outer == 1 {
				return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
			}
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 2, outer)
	assert.Equal(t, 2, inner)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected})))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
