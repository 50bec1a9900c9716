package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	DisplayOrder int        `db:"display_order"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	Price      decimal.Decimal `db:"price"`
	CategoryID int64           `db:"category_id"`
	ImageKey   *string         `db:"image_key"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  *time.Time      `db:"updated_at"`
}

// CustomerModel представляет запись таблицы customers в PostgreSQL.
type CustomerModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	TaxID     string     `db:"tax_id"`
	BirthDate time.Time  `db:"birth_date"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// StockEntryModel представляет запись таблицы stock_entries в PostgreSQL.
type StockEntryModel struct {
	ProductID int64     `db:"product_id"`
	Quantity  int64     `db:"quantity"`
	Reserved  int64     `db:"reserved"`
	UpdatedAt time.Time `db:"updated_at"`
}

// StockMovementModel представляет запись таблицы stock_movements в PostgreSQL.
type StockMovementModel struct {
	ID            int64     `db:"id"`
	ProductID     int64     `db:"product_id"`
	Kind          string    `db:"kind"`
	Delta         int64     `db:"delta"`
	QuantityAfter int64     `db:"quantity_after"`
	ReservedAfter int64     `db:"reserved_after"`
	OrderID       *int64    `db:"order_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID         int64      `db:"id"`
	CustomerID int64      `db:"customer_id"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

// LineItemModel представляет запись таблицы line_items в PostgreSQL.
type LineItemModel struct {
	ID        int64           `db:"id"`
	OrderID   int64           `db:"order_id"`
	ProductID int64           `db:"product_id"`
	Quantity  int64           `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	CreatedAt time.Time       `db:"created_at"`
}

// PaymentModel представляет запись таблицы payments в PostgreSQL.
type PaymentModel struct {
	ID           int64           `db:"id"`
	OrderID      int64           `db:"order_id"`
	Amount       decimal.Decimal `db:"amount"`
	Method       string          `db:"method"`
	Type         string          `db:"type"`
	Installments int             `db:"installments"`
	CreatedAt    time.Time       `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     int64      `db:"order_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
