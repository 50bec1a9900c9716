package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/DRSN-tech/order-backoffice/pkg/money"
	"github.com/google/uuid"
)

// SettlementUseCase управляет переходами статуса заказа, которые затрагивают склад.
type SettlementUseCase struct {
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	ledger     *StockLedger
	trm        TxManager
	logger     logger.Logger
}

func NewSettlementUC(
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	ledger *StockLedger,
	trm TxManager,
	logger logger.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		ledger:     ledger,
		trm:        trm,
		logger:     logger,
	}
}

// Evaluate закрывает заказ, если долг погашен: списывает остатки по всем строкам
// и переводит заказ в concluded. Для уже закрытого заказа ничего не делает.
func (s *SettlementUseCase) Evaluate(ctx context.Context, order *domain.Order) (bool, error) {
	const op = "SettlementUseCase.Evaluate"

	if order.Status == domain.OrderStatusConcluded || !order.IsSettled() {
		return false, nil
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusConcluded) {
		return false, nil
	}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		for _, item := range order.Items {
			if err := s.ledger.commit(ctx, item.ProductID, item.Quantity, order.ID); err != nil {
				return err
			}
		}

		applied, err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, domain.OrderStatusConcluded)
		if err != nil {
			return err
		}
		if !applied {
			s.logger.Errorf(e.ErrConsistencyFault, "order %d: status flip to concluded did not apply after stock commit", order.ID)
			return e.ErrConsistencyFault
		}

		return s.publish(ctx, order, domain.OrderStatusConcluded, domain.EventOrderConcluded)
	})
	if err != nil {
		return false, e.Wrap(op, err)
	}

	order.Status = domain.OrderStatusConcluded
	s.logger.Infof("order %d concluded, total=%s", order.ID, order.Total().StringFixed(money.Places))
	return true, nil
}

// Cancel отменяет открытый заказ и снимает резервы по его строкам.
func (s *SettlementUseCase) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	const op = "SettlementUseCase.Cancel"

	var order *domain.Order
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
			return e.ErrInvalidTransition
		}

		for _, item := range order.Items {
			if err := s.ledger.release(ctx, item.ProductID, item.Quantity, order.ID); err != nil {
				return err
			}
		}

		applied, err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, domain.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !applied {
			s.logger.Errorf(e.ErrConsistencyFault, "order %d: status flip to cancelled did not apply after stock release", order.ID)
			return e.ErrConsistencyFault
		}

		return s.publish(ctx, order, domain.OrderStatusCancelled, domain.EventOrderCancelled)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order.Status = domain.OrderStatusCancelled
	s.logger.Infof("order %d cancelled", order.ID)
	return order, nil
}

// publish сохраняет событие в outbox в текущей транзакции.
func (s *SettlementUseCase) publish(ctx context.Context, order *domain.Order, status domain.OrderStatus, eventType domain.EventType) error {
	event, err := newOrderEvent(order, status, eventType)
	if err != nil {
		return err
	}

	_, err = s.outboxRepo.Create(ctx, event)
	return err
}

func newOrderEvent(order *domain.Order, status domain.OrderStatus, eventType domain.EventType) (*domain.OutboxEvent, error) {
	items := make([]domain.EventLineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.EventLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(money.Places),
		})
	}

	payload, err := json.Marshal(domain.OrderEventPayload{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     status,
		Total:      order.Total().StringFixed(money.Places),
		Paid:       order.AmountPaid().StringFixed(money.Places),
		Items:      items,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &domain.OutboxEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		OrderID:   order.ID,
		Payload:   payload,
		Status:    domain.OutboxStatusPending,
	}, nil
}
