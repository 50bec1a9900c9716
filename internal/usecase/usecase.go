package usecase

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
)

type CatalogUC interface {
	CreateCategory(ctx context.Context, req *CategoryReq) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *CategoryReq) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	CreateProduct(ctx context.Context, req *ProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *ProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, categoryID *int64) ([]*domain.Product, error)
	UploadProductImage(ctx context.Context, productID int64, img *ProductImage) (*domain.Product, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
}

type CustomerUC interface {
	Create(ctx context.Context, req *CustomerReq) (*domain.Customer, error)
	Update(ctx context.Context, id int64, req *CustomerReq) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}

type StockUC interface {
	GetOrCreate(ctx context.Context, productID int64) (*domain.StockEntry, error)
	Adjust(ctx context.Context, productID, delta int64) (*domain.StockEntry, error)
	SetAbsolute(ctx context.Context, productID, quantity int64) (*domain.StockEntry, error)
	Movements(ctx context.Context, productID int64, limit int) ([]*domain.StockMovement, error)
}

type OrderUC interface {
	Create(ctx context.Context, customerID int64) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	Summary(ctx context.Context, id int64) (*OrderSummary, error)
	AddLineItem(ctx context.Context, req *AddLineItemReq) (*domain.LineItem, error)
	RemoveLineItem(ctx context.Context, itemID int64) error
	Start(ctx context.Context, id int64) (*domain.Order, error)
	Cancel(ctx context.Context, id int64) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentUC interface {
	RegisterPayment(ctx context.Context, req *RegisterPaymentReq) (*RegisterPaymentRes, error)
}

type SearchUC interface {
	Search(ctx context.Context, target, query string) ([]SearchResult, error)
}
