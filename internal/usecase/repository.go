package usecase

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
)

// TxManager выполняет fn в транзакции. Вложенные вызовы присоединяются к внешней.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, categoryID *int64) ([]*domain.Product, error)
	SetImageKey(ctx context.Context, id int64, key *string) error
	GetProductsInfo(ctx context.Context, ids []int64) ([]*domain.ProductInfo, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type StockRepository interface {
	// GetOrCreateForUpdate возвращает запись остатка под блокировкой, создавая её с нулём при отсутствии.
	GetOrCreateForUpdate(ctx context.Context, productID int64) (*domain.StockEntry, error)
	Save(ctx context.Context, entry *domain.StockEntry) error
	AddMovement(ctx context.Context, movement *domain.StockMovement) error
	ListMovements(ctx context.Context, productID int64, limit int) ([]*domain.StockMovement, error)
	// CommittedQuantity возвращает, сколько товара списано по заказу движениями commit.
	CommittedQuantity(ctx context.Context, orderID, productID int64) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetForUpdate блокирует строку заказа до конца транзакции.
	GetForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	// UpdateStatus меняет статус, только если текущий равен from. Возвращает false, если строка не изменилась.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type LineItemRepository interface {
	Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error)
	GetByID(ctx context.Context, id int64) (*domain.LineItem, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReturnToPending(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]*domain.ProductInfo, error)
	SetProducts(ctx context.Context, products []*domain.ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type IdempotencyRepository interface {
	// Reserve занимает ключ, false означает повторный запрос.
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image, data []byte) error
	Delete(ctx context.Context, key string) error
}
