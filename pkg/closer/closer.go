package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

const defaultForcedTimeout = 2 * time.Second

// Func — функция освобождения ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name string
	fn   Func
}

// Closer освобождает зарегистрированные ресурсы в обратном порядке (LIFO).
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
	log           logger.Logger
}

// NewCloser создаёт Closer. forcedTimeout ограничивает принудительное закрытие
// ресурсов, не успевших закрыться до отмены контекста.
func NewCloser(forcedTimeout time.Duration, log logger.Logger) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout, log: log}
}

// Add регистрирует ресурс под именем name.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, fn: f})
}

// Close закрывает ресурсы один раз. Повторные вызовы возвращают nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := make([]resource, len(c.resources))
		copy(resources, c.resources)
		c.mu.Unlock()

		err = c.closeAll(ctx, resources)
	})

	return err
}

func (c *Closer) closeAll(ctx context.Context, resources []resource) error {
	var errs []error

	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)
		go func() { done <- res.fn(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				c.log.Errorf(err, "failed to close %s", res.name)
				errs = append(errs, fmt.Errorf("%s: %w", res.name, err))
				continue
			}
			c.log.Debugf("%s closed", res.name)
		case <-ctx.Done():
			c.log.Warnf("shutdown deadline reached, forcing %d resource(s)", i+1)
			errs = append(errs, c.forceClose(resources[:i+1])...)
			errs = append(errs, fmt.Errorf("shutdown interrupted: %w", ctx.Err()))
			return errors.Join(errs...)
		}
	}

	return errors.Join(errs...)
}

// forceClose параллельно закрывает оставшиеся ресурсы с собственным таймаутом.
func (c *Closer) forceClose(resources []resource) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
