package domain

import (
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
)

// StockEntry описывает остаток товара. Quantity лежит на складе физически,
// Reserved удержан открытыми заказами.
type StockEntry struct {
	ProductID int64
	Quantity  int64
	Reserved  int64
	UpdatedAt time.Time
}

func NewStockEntry(productID int64) *StockEntry {
	return &StockEntry{ProductID: productID}
}

// Available возвращает остаток, который можно зарезервировать.
func (s *StockEntry) Available() int64 {
	return max(s.Quantity-s.Reserved, 0)
}

// Adjust меняет остаток на delta, не опускаясь ниже нуля.
func (s *StockEntry) Adjust(delta int64) {
	s.Quantity = max(s.Quantity+delta, 0)
}

// SetAbsolute задаёт остаток вручную.
func (s *StockEntry) SetAbsolute(quantity int64) error {
	if quantity < 0 {
		return e.FieldError("quantity", "must not be negative")
	}
	s.Quantity = quantity
	return nil
}

// Reserve удерживает qty единиц под строку заказа.
func (s *StockEntry) Reserve(qty int64) error {
	if available := s.Available(); available < qty {
		return &e.InsufficientStockError{ProductID: s.ProductID, Requested: qty, Available: available}
	}
	s.Reserved += qty
	return nil
}

// Release снимает резерв.
func (s *StockEntry) Release(qty int64) {
	s.Reserved = max(s.Reserved-qty, 0)
}

// Commit списывает зарезервированное при закрытии заказа.
func (s *StockEntry) Commit(qty int64) {
	s.Quantity = max(s.Quantity-qty, 0)
	s.Reserved = max(s.Reserved-qty, 0)
}

// Return возвращает на склад ранее списанное количество.
func (s *StockEntry) Return(qty int64) {
	s.Quantity += qty
}

type MovementKind string

const (
	MovementAdjust  MovementKind = "adjust"
	MovementSet     MovementKind = "set"
	MovementReserve MovementKind = "reserve"
	MovementRelease MovementKind = "release"
	MovementCommit  MovementKind = "commit"
	MovementReturn  MovementKind = "return"
)

// StockMovement — запись журнала движения остатков.
type StockMovement struct {
	ID            int64
	ProductID     int64
	Kind          MovementKind
	Delta         int64
	QuantityAfter int64
	ReservedAfter int64
	OrderID       *int64
	CreatedAt     time.Time
}

// Movement фиксирует состояние записи после изменения.
func (s *StockEntry) Movement(kind MovementKind, delta int64, orderID *int64) *StockMovement {
	return &StockMovement{
		ProductID:     s.ProductID,
		Kind:          kind,
		Delta:         delta,
		QuantityAfter: s.Quantity,
		ReservedAfter: s.Reserved,
		OrderID:       orderID,
	}
}
