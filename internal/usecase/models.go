package usecase

import (
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

// SearchLimit ограничивает число результатов автодополнения.
const SearchLimit = 10

// CATALOG

// CategoryReq — данные для создания и изменения категории.
type CategoryReq struct {
	Name         string `json:"name" validate:"required,min=3,max=100"`
	DisplayOrder int    `json:"order" validate:"gte=0"`
}

// ProductReq — данные товара. Цена передаётся строкой в формате «1.234,56».
type ProductReq struct {
	Name       string `json:"name" validate:"required,max=100"`
	Price      string `json:"price" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

type CustomerReq struct {
	Name      string    `json:"name" validate:"required,max=100"`
	TaxID     string    `json:"tax_id" validate:"required,max=15"`
	BirthDate time.Time `json:"birth_date" validate:"required,notfuture"`
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []*domain.ProductInfo
	NotFoundProducts []int64
}

// ORDERS

type OrderFilter struct {
	Status     *domain.OrderStatus
	CustomerID *int64
}

// AddLineItemReq: при UnitPrice == nil берётся текущая цена товара.
type AddLineItemReq struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice *string
}

// OrderSummary содержит итоги по заказу.
type OrderSummary struct {
	ID            int64
	CustomerID    int64
	Status        domain.OrderStatus
	ItemsCount    int
	Total         decimal.Decimal
	Paid          decimal.Decimal
	RemainingDebt decimal.Decimal
}

// PAYMENTS

// PaymentInput — сырые данные платежа для проверки.
type PaymentInput struct {
	Amount       string
	Type         domain.PaymentType
	Installments int
}

// ValidatedPayment хранит нормализованный платёж после проверки.
type ValidatedPayment struct {
	Amount       decimal.Decimal
	Type         domain.PaymentType
	Installments int
}

type RegisterPaymentReq struct {
	OrderID        int64
	Amount         string
	Method         string
	Type           string
	Installments   int
	IdempotencyKey string
}

type RegisterPaymentRes struct {
	Payment *domain.Payment
	Summary *OrderSummary
	Settled bool
}

// SEARCH

// SearchResult — запись автодополнения.
type SearchResult struct {
	ID    int64
	Name  string
	Price *decimal.Decimal
	Image *string
}

// INFRASTRUCTURE

type UploadImageReq struct {
	ProductID int64
	Image     *ProductImage
}

type UploadImageRes struct {
	ObjectKey string
}

type WriteRawMessageReq struct {
	Key     int64
	Payload []byte
}

// MAPPERS

func NewOrderSummary(o *domain.Order) *OrderSummary {
	return &OrderSummary{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		ItemsCount:    len(o.Items),
		Total:         o.Total(),
		Paid:          o.AmountPaid(),
		RemainingDebt: o.RemainingDebt(),
	}
}

func NewGetProductsRes(products []*domain.ProductInfo, notFound []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         products,
		NotFoundProducts: notFound,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{IDs: ids}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewWriteRawMessageReq(key int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{Key: key, Payload: payload}
}
