package usecase

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

const defaultMovementsLimit = 100

// StockLedger ведёт остатки товаров. Каждое изменение пишется в журнал движений.
type StockLedger struct {
	stockRepo StockRepository
	trm       TxManager
	logger    logger.Logger
}

func NewStockLedger(stockRepo StockRepository, trm TxManager, logger logger.Logger) *StockLedger {
	return &StockLedger{
		stockRepo: stockRepo,
		trm:       trm,
		logger:    logger,
	}
}

// GetOrCreate возвращает запись остатка, создавая её с нулём для нового товара.
func (s *StockLedger) GetOrCreate(ctx context.Context, productID int64) (*domain.StockEntry, error) {
	const op = "StockLedger.GetOrCreate"

	var entry *domain.StockEntry
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.stockRepo.GetOrCreateForUpdate(ctx, productID)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return entry, nil
}

// Adjust меняет остаток на delta с отсечением на нуле.
func (s *StockLedger) Adjust(ctx context.Context, productID, delta int64) (*domain.StockEntry, error) {
	const op = "StockLedger.Adjust"

	entry, err := s.mutate(ctx, productID, domain.MovementAdjust, nil, func(entry *domain.StockEntry) error {
		entry.Adjust(delta)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return entry, nil
}

// SetAbsolute задаёт остаток вручную.
func (s *StockLedger) SetAbsolute(ctx context.Context, productID, quantity int64) (*domain.StockEntry, error) {
	const op = "StockLedger.SetAbsolute"

	if quantity < 0 {
		return nil, e.Wrap(op, e.FieldError("quantity", "must not be negative"))
	}

	entry, err := s.mutate(ctx, productID, domain.MovementSet, nil, func(entry *domain.StockEntry) error {
		return entry.SetAbsolute(quantity)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return entry, nil
}

// Movements возвращает последние движения по товару, новые первыми.
func (s *StockLedger) Movements(ctx context.Context, productID int64, limit int) ([]*domain.StockMovement, error) {
	const op = "StockLedger.Movements"

	if limit <= 0 || limit > defaultMovementsLimit {
		limit = defaultMovementsLimit
	}

	movements, err := s.stockRepo.ListMovements(ctx, productID, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return movements, nil
}

func (s *StockLedger) reserve(ctx context.Context, productID, qty, orderID int64) error {
	_, err := s.mutate(ctx, productID, domain.MovementReserve, &orderID, func(entry *domain.StockEntry) error {
		return entry.Reserve(qty)
	})
	return err
}

func (s *StockLedger) release(ctx context.Context, productID, qty, orderID int64) error {
	_, err := s.mutate(ctx, productID, domain.MovementRelease, &orderID, func(entry *domain.StockEntry) error {
		entry.Release(qty)
		return nil
	})
	return err
}

func (s *StockLedger) commit(ctx context.Context, productID, qty, orderID int64) error {
	_, err := s.mutate(ctx, productID, domain.MovementCommit, &orderID, func(entry *domain.StockEntry) error {
		entry.Commit(qty)
		return nil
	})
	return err
}

// restoreCommitted возвращает на склад ровно то, что списали по заказу при расчёте.
func (s *StockLedger) restoreCommitted(ctx context.Context, productID, orderID int64) error {
	committed, err := s.stockRepo.CommittedQuantity(ctx, orderID, productID)
	if err != nil {
		return err
	}
	if committed <= 0 {
		return nil
	}

	_, err = s.mutate(ctx, productID, domain.MovementReturn, &orderID, func(entry *domain.StockEntry) error {
		entry.Return(committed)
		return nil
	})
	return err
}

// mutate блокирует запись остатка, применяет apply и пишет движение в той же транзакции.
// В движение попадает фактическое изменение после отсечения, а не запрошенное.
func (s *StockLedger) mutate(
	ctx context.Context,
	productID int64,
	kind domain.MovementKind,
	orderID *int64,
	apply func(entry *domain.StockEntry) error,
) (*domain.StockEntry, error) {
	var entry *domain.StockEntry
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.stockRepo.GetOrCreateForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		before := *entry
		if err := apply(entry); err != nil {
			return err
		}
		delta := movementDelta(kind, &before, entry)

		if err := s.stockRepo.Save(ctx, entry); err != nil {
			return err
		}

		return s.stockRepo.AddMovement(ctx, entry.Movement(kind, delta, orderID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("stock %s: product=%d quantity=%d reserved=%d", kind, productID, entry.Quantity, entry.Reserved)
	return entry, nil
}

// movementDelta для резерва и его снятия считает изменение резерва, для остальных видов изменение остатка.
func movementDelta(kind domain.MovementKind, before, after *domain.StockEntry) int64 {
	switch kind {
	case domain.MovementReserve, domain.MovementRelease:
		return after.Reserved - before.Reserved
	default:
		return after.Quantity - before.Quantity
	}
}
