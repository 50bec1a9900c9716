package http

import (
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

// Money — сумма в каноническом виде и в виде для отображения.
type Money struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

func toMoney(d decimal.Decimal) Money {
	return Money{Amount: d.StringFixed(money.Places), Formatted: money.Format(d)}
}

type CategoryResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	DisplayOrder int        `json:"order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		DisplayOrder: c.DisplayOrder,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type ProductResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Price      Money      `json:"price"`
	CategoryID int64      `json:"category_id"`
	Image      *string    `json:"image,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      toMoney(p.Price),
		CategoryID: p.CategoryID,
		Image:      p.ImageKey,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type ProductInfoResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      Money   `json:"price"`
	CategoryID int64   `json:"category_id"`
	Image      *string `json:"image,omitempty"`
}

type ProductsInfoResponse struct {
	Products []ProductInfoResponse `json:"products"`
	NotFound []int64               `json:"not_found"`
}

func toProductsInfoResponse(res *usecase.GetProductsRes) ProductsInfoResponse {
	out := ProductsInfoResponse{
		Products: make([]ProductInfoResponse, 0, len(res.Products)),
		NotFound: res.NotFoundProducts,
	}
	if out.NotFound == nil {
		out.NotFound = []int64{}
	}

	for _, p := range res.Products {
		out.Products = append(out.Products, ProductInfoResponse{
			ID:         p.ID,
			Name:       p.Name,
			Price:      toMoney(p.Price),
			CategoryID: p.CategoryID,
			Image:      p.ImageKey,
		})
	}

	return out
}

type CustomerResponse struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	TaxID              string     `json:"tax_id"`
	BirthDate          string     `json:"birth_date"`
	BirthDateFormatted string     `json:"birth_date_formatted"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

func toCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 c.ID,
		Name:               c.Name,
		TaxID:              c.TaxID,
		BirthDate:          c.BirthDate.Format(time.DateOnly),
		BirthDateFormatted: c.BirthDateFormatted(),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

type StockResponse struct {
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Reserved  int64     `json:"reserved"`
	Available int64     `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStockResponse(s *domain.StockEntry) StockResponse {
	return StockResponse{
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Reserved:  s.Reserved,
		Available: s.Available(),
		UpdatedAt: s.UpdatedAt,
	}
}

type MovementResponse struct {
	ID            int64     `json:"id"`
	Kind          string    `json:"kind"`
	Delta         int64     `json:"delta"`
	QuantityAfter int64     `json:"quantity_after"`
	ReservedAfter int64     `json:"reserved_after"`
	OrderID       *int64    `json:"order_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toMovementsResponse(movements []*domain.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, MovementResponse{
			ID:            m.ID,
			Kind:          string(m.Kind),
			Delta:         m.Delta,
			QuantityAfter: m.QuantityAfter,
			ReservedAfter: m.ReservedAfter,
			OrderID:       m.OrderID,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out
}

type LineItemResponse struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice Money `json:"unit_price"`
	Subtotal  Money `json:"subtotal"`
}

func toLineItemResponse(item *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: toMoney(item.UnitPrice),
		Subtotal:  toMoney(item.Subtotal()),
	}
}

type PaymentResponse struct {
	ID           int64     `json:"id"`
	Amount       Money     `json:"amount"`
	Method       string    `json:"method"`
	Type         string    `json:"type"`
	Installments int       `json:"installments"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		Amount:       toMoney(p.Amount),
		Method:       string(p.Method),
		Type:         string(p.Type),
		Installments: p.Installments,
		CreatedAt:    p.CreatedAt,
	}
}

type OrderSummaryResponse struct {
	ID            int64  `json:"id"`
	CustomerID    int64  `json:"customer_id"`
	Status        string `json:"status"`
	ItemsCount    int    `json:"items_count"`
	Total         Money  `json:"total"`
	Paid          Money  `json:"paid"`
	RemainingDebt Money  `json:"remaining_debt"`
}

func toSummaryResponse(s *usecase.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		Status:        string(s.Status),
		ItemsCount:    s.ItemsCount,
		Total:         toMoney(s.Total),
		Paid:          toMoney(s.Paid),
		RemainingDebt: toMoney(s.RemainingDebt),
	}
}

type OrderResponse struct {
	OrderSummaryResponse
	Items     []LineItemResponse `json:"items"`
	Payments  []PaymentResponse  `json:"payments"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	out := OrderResponse{
		OrderSummaryResponse: toSummaryResponse(usecase.NewOrderSummary(o)),
		Items:                make([]LineItemResponse, 0, len(o.Items)),
		Payments:             make([]PaymentResponse, 0, len(o.Payments)),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}

	for _, item := range o.Items {
		out.Items = append(out.Items, toLineItemResponse(item))
	}
	for _, p := range o.Payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}

	return out
}

type RegisterPaymentResponse struct {
	Payment PaymentResponse      `json:"payment"`
	Order   OrderSummaryResponse `json:"order"`
	Settled bool                 `json:"settled"`
}

type SearchResultResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price *Money  `json:"price,omitempty"`
	Image *string `json:"image,omitempty"`
}

func toSearchResponse(results []usecase.SearchResult) []SearchResultResponse {
	out := make([]SearchResultResponse, 0, len(results))
	for _, r := range results {
		item := SearchResultResponse{ID: r.ID, Name: r.Name, Image: r.Image}
		if r.Price != nil {
			m := toMoney(*r.Price)
			item.Price = &m
		}
		out = append(out, item)
	}
	return out
}
