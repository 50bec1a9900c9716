package domain

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventOrderConcluded EventType = "order_concluded"
	EventOrderCancelled EventType = "order_cancelled"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusProcessed  OutboxStatus = "processed"
)

// OutboxEvent — событие, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   EventType
	OrderID     int64
	Payload     json.RawMessage
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// OrderEventPayload — тело события о заказе.
type OrderEventPayload struct {
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Status     OrderStatus     `json:"status"`
	Total      string          `json:"total"`
	Paid       string          `json:"paid"`
	Items      []EventLineItem `json:"items"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type EventLineItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}
