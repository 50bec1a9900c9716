package tr

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/jitter"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 50 * time.Millisecond
	defaultMaxDelay   = time.Second
)

// Querier — активная транзакция из контекста либо пул соединений.
type Querier = trmpgx.Tr

// Conn извлекает транзакцию из контекста, а при её отсутствии возвращает пул.
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, pool)
}

// Runner выполняет fn внутри транзакции, вложенные вызовы присоединяются к внешней.
type Runner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type scopeKey struct{}

// Manager повторяет всю единицу работы при serialization failure и deadlock.
type Manager struct {
	runner     Runner
	logger     logger.Logger
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewManager(pool *pgxpool.Pool, logger logger.Logger) *Manager {
	return NewRetryingManager(manager.Must(trmpgx.NewDefaultFactory(pool)), logger)
}

func NewRetryingManager(runner Runner, logger logger.Logger) *Manager {
	return &Manager{
		runner:     runner,
		logger:     logger,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
}

// Do открывает транзакцию (или присоединяется к уже открытой) и выполняет fn.
// Повторы выполняются только на внешнем уровне.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(scopeKey{}) != nil {
		return m.runner.Do(ctx, fn)
	}
	ctx = context.WithValue(ctx, scopeKey{}, struct{}{})

	var err error
	for attempt := 0; ; attempt++ {
		err = m.runner.Do(ctx, fn)
		if err == nil || !IsRetryable(err) || attempt >= m.maxRetries {
			return err
		}

		delay := jitter.Backoff(m.baseDelay, m.maxDelay, attempt, jitter.DefaultFactor)
		m.logger.Warnf("transaction conflict, retry %d/%d in %s: %v", attempt+1, m.maxRetries, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

// IsRetryable сообщает, можно ли безопасно повторить транзакцию.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}
