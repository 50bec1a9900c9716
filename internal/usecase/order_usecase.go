package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/DRSN-tech/order-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

// OrderUseCase управляет заказами и их строками.
// Добавление строки резервирует остаток, удаление снимает резерв.
type OrderUseCase struct {
	orderRepo    OrderRepository
	lineItemRepo LineItemRepository
	customerRepo CustomerRepository
	productRepo  ProductRepository
	ledger       *StockLedger
	settlement   *SettlementUseCase
	trm          TxManager
	logger       logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	lineItemRepo LineItemRepository,
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	ledger *StockLedger,
	settlement *SettlementUseCase,
	trm TxManager,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		lineItemRepo: lineItemRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		ledger:       ledger,
		settlement:   settlement,
		trm:          trm,
		logger:       logger,
	}
}

// Create открывает пустой заказ в статусе new.
func (o *OrderUseCase) Create(ctx context.Context, customerID int64) (*domain.Order, error) {
	const op = "OrderUseCase.Create"

	if _, err := o.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.FieldError("customer_id", "customer not found"))
		}
		return nil, e.Wrap(op, err)
	}

	order, err := o.orderRepo.Create(ctx, domain.NewOrder(customerID))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("order %d created for customer %d", order.ID, customerID)
	return order, nil
}

func (o *OrderUseCase) Get(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.Get"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

func (o *OrderUseCase) List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error) {
	const op = "OrderUseCase.List"

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, e.Wrap(op, e.FieldError("status", "is invalid"))
	}

	orders, err := o.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// Summary возвращает итог, оплаченную сумму и остаток долга по заказу.
func (o *OrderUseCase) Summary(ctx context.Context, id int64) (*OrderSummary, error) {
	const op = "OrderUseCase.Summary"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewOrderSummary(order), nil
}

// TotalAmount считает сумму по всем строкам заказа.
func (o *OrderUseCase) TotalAmount(order *domain.Order) decimal.Decimal {
	return order.Total()
}

// AddLineItem добавляет товар в открытый заказ и резервирует остаток.
func (o *OrderUseCase) AddLineItem(ctx context.Context, req *AddLineItemReq) (*domain.LineItem, error) {
	const op = "OrderUseCase.AddLineItem"

	if req.Quantity <= 0 {
		return nil, e.Wrap(op, e.FieldError("quantity", "must be greater than 0"))
	}

	var item *domain.LineItem
	err := o.trm.Do(ctx, func(ctx context.Context) error {
		order, err := o.orderRepo.GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if !order.IsOpen() {
			return e.ErrOrderClosed
		}

		product, err := o.productRepo.GetByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return e.FieldError("product_id", "product not found")
			}
			return err
		}

		unitPrice, err := resolveUnitPrice(product, req.UnitPrice)
		if err != nil {
			return err
		}

		if err := o.ledger.reserve(ctx, product.ID, req.Quantity, order.ID); err != nil {
			return err
		}

		item, err = o.lineItemRepo.Create(ctx, domain.NewLineItem(order.ID, product.ID, req.Quantity, unitPrice))
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return item, nil
}

// RemoveLineItem удаляет строку открытого заказа и снимает её резерв.
func (o *OrderUseCase) RemoveLineItem(ctx context.Context, itemID int64) error {
	const op = "OrderUseCase.RemoveLineItem"

	err := o.trm.Do(ctx, func(ctx context.Context) error {
		item, err := o.lineItemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		order, err := o.orderRepo.GetForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if !order.IsOpen() {
			return e.ErrOrderClosed
		}

		if err := o.lineItemRepo.Delete(ctx, item.ID); err != nil {
			return err
		}

		return o.ledger.release(ctx, item.ProductID, item.Quantity, order.ID)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Start переводит заказ из new в in_progress.
func (o *OrderUseCase) Start(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.Start"

	var order *domain.Order
	err := o.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(domain.OrderStatusInProgress) {
			return e.ErrInvalidTransition
		}

		applied, err := o.orderRepo.UpdateStatus(ctx, id, order.Status, domain.OrderStatusInProgress)
		if err != nil {
			return err
		}
		if !applied {
			return e.ErrInvalidTransition
		}

		order.Status = domain.OrderStatusInProgress
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// Cancel отменяет открытый заказ.
func (o *OrderUseCase) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.Cancel"

	order, err := o.settlement.Cancel(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// Delete удаляет заказ. Перед удалением резервы открытого заказа снимаются,
// а списанное по закрытому заказу возвращается на склад.
func (o *OrderUseCase) Delete(ctx context.Context, id int64) error {
	const op = "OrderUseCase.Delete"

	err := o.trm.Do(ctx, func(ctx context.Context) error {
		order, err := o.orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case order.IsOpen():
			for _, item := range order.Items {
				if err := o.ledger.release(ctx, item.ProductID, item.Quantity, order.ID); err != nil {
					return err
				}
			}
		case order.Status == domain.OrderStatusConcluded:
			// Движения commit ссылаются на заказ, поэтому читаем их до удаления.
			restored := make(map[int64]struct{}, len(order.Items))
			for _, item := range order.Items {
				if _, ok := restored[item.ProductID]; ok {
					continue
				}
				restored[item.ProductID] = struct{}{}
				if err := o.ledger.restoreCommitted(ctx, item.ProductID, order.ID); err != nil {
					return err
				}
			}
		}

		return o.orderRepo.Delete(ctx, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	o.logger.Infof("order %d deleted", id)
	return nil
}

func resolveUnitPrice(product *domain.Product, raw *string) (decimal.Decimal, error) {
	if raw == nil {
		return product.Price, nil
	}

	price, err := money.Parse(*raw)
	if err != nil {
		return decimal.Decimal{}, e.FieldError("unit_price", e.ErrInvalidAmountFormat.Error())
	}
	if price.IsNegative() {
		return decimal.Decimal{}, e.FieldError("unit_price", "must not be negative")
	}

	return price, nil
}
