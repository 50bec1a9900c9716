package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusConcluded  OrderStatus = "concluded"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// transitions: допустимые переходы статусов заказа.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:        {OrderStatusInProgress, OrderStatusConcluded, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusConcluded, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusConcluded, OrderStatusCancelled:
		return true
	}
	return false
}

// IsOpen сообщает, можно ли менять состав заказа и принимать платежи.
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusNew || s == OrderStatusInProgress
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItem описывает строку заказа. Цена фиксируется в момент добавления.
type LineItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

func NewLineItem(orderID, productID, quantity int64, unitPrice decimal.Decimal) *LineItem {
	return &LineItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

func (l *LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Order — заказ клиента вместе со строками и платежами.
type Order struct {
	ID         int64
	CustomerID int64
	Status     OrderStatus
	Items      []*LineItem
	Payments   []*Payment
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewOrder(customerID int64) *Order {
	return &Order{
		CustomerID: customerID,
		Status:     OrderStatusNew,
	}
}

func (o *Order) IsOpen() bool {
	return o.Status.IsOpen()
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) AmountPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range o.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// RemainingDebt = Total - AmountPaid.
func (o *Order) RemainingDebt() decimal.Decimal {
	return o.Total().Sub(o.AmountPaid())
}

// IsSettled сообщает, покрыт ли долг по заказу.
func (o *Order) IsSettled() bool {
	return !o.RemainingDebt().IsPositive()
}
