package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/stretchr/testify/require"
)

const testMaxImageSize = 1024

type harness struct {
	store  *memStore
	tx     *fakeTxManager
	cache  *fakeCache
	idem   *fakeIdempotency
	images *fakeImages

	ledger     *StockLedger
	catalog    *CatalogUseCase
	customers  *CustomerUseCase
	orders     *OrderUseCase
	payments   *PaymentUseCase
	settlement *SettlementUseCase
	search     *SearchUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := newMemStore()
	tx := &fakeTxManager{store: store}
	log := logger.NewNop()

	categoryRepo := memCategoryRepo{s: store}
	productRepo := memProductRepo{s: store}
	customerRepo := memCustomerRepo{s: store}
	orderRepo := memOrderRepo{s: store}

	h := &harness{
		store:  store,
		tx:     tx,
		cache:  newFakeCache(),
		idem:   newFakeIdempotency(),
		images: &fakeImages{},
	}

	h.ledger = NewStockLedger(memStockRepo{s: store}, tx, log)
	h.catalog = NewCatalogUC(categoryRepo, productRepo, h.cache, h.images, tx, log, testMaxImageSize)
	h.customers = NewCustomerUC(customerRepo, log)
	h.settlement = NewSettlementUC(orderRepo, memOutboxRepo{s: store}, h.ledger, tx, log)
	h.orders = NewOrderUC(orderRepo, memLineItemRepo{s: store}, customerRepo, productRepo, h.ledger, h.settlement, tx, log)
	h.payments = NewPaymentUC(orderRepo, memPaymentRepo{s: store}, h.idem, h.settlement, tx, log)
	h.search = NewSearchUC(categoryRepo, customerRepo, productRepo)

	return h
}

func (h *harness) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()

	c, err := h.catalog.CreateCategory(context.Background(), &CategoryReq{Name: name, DisplayOrder: 1})
	require.NoError(t, err)
	return c
}

// seedProduct создаёт товар с ценой price и остатком qty.
func (h *harness) seedProduct(t *testing.T, name, price string, qty int64) *domain.Product {
	t.Helper()

	category := h.seedCategory(t, "Category of "+name)
	p, err := h.catalog.CreateProduct(context.Background(), &ProductReq{Name: name, Price: price, CategoryID: category.ID})
	require.NoError(t, err)

	_, err = h.ledger.SetAbsolute(context.Background(), p.ID, qty)
	require.NoError(t, err)
	return p
}

func (h *harness) seedCustomer(t *testing.T, name string) *domain.Customer {
	t.Helper()

	c, err := h.customers.Create(context.Background(), &CustomerReq{
		Name:      name,
		TaxID:     "123.456.789-00",
		BirthDate: time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return c
}

func (h *harness) newOrder(t *testing.T) *domain.Order {
	t.Helper()

	customer := h.seedCustomer(t, "Maria")
	o, err := h.orders.Create(context.Background(), customer.ID)
	require.NoError(t, err)
	return o
}

func (h *harness) addItem(t *testing.T, orderID, productID, qty int64) *domain.LineItem {
	t.Helper()

	item, err := h.orders.AddLineItem(context.Background(), &AddLineItemReq{OrderID: orderID, ProductID: productID, Quantity: qty})
	require.NoError(t, err)
	return item
}

func (h *harness) pay(orderID int64, amount string) (*RegisterPaymentRes, error) {
	return h.payments.RegisterPayment(context.Background(), &RegisterPaymentReq{
		OrderID: orderID,
		Amount:  amount,
		Method:  "cash",
		Type:    "full",
	})
}

func (h *harness) stock(productID int64) *domain.StockEntry {
	entry := h.store.stock[productID]
	return &entry
}

func (h *harness) order(t *testing.T, id int64) *domain.Order {
	t.Helper()

	o, err := h.orders.Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (h *harness) movementsOf(productID int64, kind domain.MovementKind) int {
	n := 0
	for _, m := range h.store.movements {
		if m.ProductID == productID && m.Kind == kind {
			n++
		}
	}
	return n
}
