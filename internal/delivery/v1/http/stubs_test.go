package http

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
)

// Заглушки usecase: по умолчанию возвращают ErrNotFound, нужное поведение задаётся в тесте.

type stubCatalog struct {
	createCategory func(req *usecase.CategoryReq) (*domain.Category, error)
	deleteCategory func(id int64) error
	listCategories func() ([]*domain.Category, error)
	createProduct  func(req *usecase.ProductReq) (*domain.Product, error)
	listProducts   func(categoryID *int64) ([]*domain.Product, error)
	productsInfo   func(req *usecase.GetProductsReq) (*usecase.GetProductsRes, error)
	uploadImage    func(productID int64, img *usecase.ProductImage) (*domain.Product, error)
}

func (s *stubCatalog) CreateCategory(_ context.Context, req *usecase.CategoryReq) (*domain.Category, error) {
	return s.createCategory(req)
}

func (s *stubCatalog) UpdateCategory(context.Context, int64, *usecase.CategoryReq) (*domain.Category, error) {
	return nil, e.ErrNotFound
}

func (s *stubCatalog) DeleteCategory(_ context.Context, id int64) error {
	return s.deleteCategory(id)
}

func (s *stubCatalog) GetCategory(context.Context, int64) (*domain.Category, error) {
	return nil, e.ErrNotFound
}

func (s *stubCatalog) ListCategories(context.Context) ([]*domain.Category, error) {
	return s.listCategories()
}

func (s *stubCatalog) CreateProduct(_ context.Context, req *usecase.ProductReq) (*domain.Product, error) {
	return s.createProduct(req)
}

func (s *stubCatalog) UpdateProduct(context.Context, int64, *usecase.ProductReq) (*domain.Product, error) {
	return nil, e.ErrNotFound
}

func (s *stubCatalog) DeleteProduct(context.Context, int64) error {
	return e.ErrNotFound
}

func (s *stubCatalog) GetProduct(context.Context, int64) (*domain.Product, error) {
	return nil, e.ErrNotFound
}

func (s *stubCatalog) ListProducts(_ context.Context, categoryID *int64) ([]*domain.Product, error) {
	return s.listProducts(categoryID)
}

func (s *stubCatalog) UploadProductImage(_ context.Context, productID int64, img *usecase.ProductImage) (*domain.Product, error) {
	return s.uploadImage(productID, img)
}

func (s *stubCatalog) GetProductsInfo(_ context.Context, req *usecase.GetProductsReq) (*usecase.GetProductsRes, error) {
	return s.productsInfo(req)
}

type stubCustomer struct {
	create func(req *usecase.CustomerReq) (*domain.Customer, error)
	delete func(id int64) error
}

func (s *stubCustomer) Create(_ context.Context, req *usecase.CustomerReq) (*domain.Customer, error) {
	return s.create(req)
}

func (s *stubCustomer) Update(context.Context, int64, *usecase.CustomerReq) (*domain.Customer, error) {
	return nil, e.ErrNotFound
}

func (s *stubCustomer) Delete(_ context.Context, id int64) error {
	return s.delete(id)
}

func (s *stubCustomer) Get(context.Context, int64) (*domain.Customer, error) {
	return nil, e.ErrNotFound
}

func (s *stubCustomer) List(context.Context) ([]*domain.Customer, error) {
	return nil, nil
}

type stubStock struct {
	setAbsolute func(productID, quantity int64) (*domain.StockEntry, error)
	movements   func(productID int64, limit int) ([]*domain.StockMovement, error)
}

func (s *stubStock) GetOrCreate(_ context.Context, productID int64) (*domain.StockEntry, error) {
	return domain.NewStockEntry(productID), nil
}

func (s *stubStock) Adjust(context.Context, int64, int64) (*domain.StockEntry, error) {
	return nil, e.ErrNotFound
}

func (s *stubStock) SetAbsolute(_ context.Context, productID, quantity int64) (*domain.StockEntry, error) {
	return s.setAbsolute(productID, quantity)
}

func (s *stubStock) Movements(_ context.Context, productID int64, limit int) ([]*domain.StockMovement, error) {
	return s.movements(productID, limit)
}

type stubOrder struct {
	get            func(id int64) (*domain.Order, error)
	list           func(filter usecase.OrderFilter) ([]*domain.Order, error)
	addLineItem    func(req *usecase.AddLineItemReq) (*domain.LineItem, error)
	removeLineItem func(itemID int64) error
	cancel         func(id int64) (*domain.Order, error)
}

func (s *stubOrder) Create(_ context.Context, customerID int64) (*domain.Order, error) {
	return &domain.Order{ID: 1, CustomerID: customerID, Status: domain.OrderStatusNew}, nil
}

func (s *stubOrder) Get(_ context.Context, id int64) (*domain.Order, error) {
	return s.get(id)
}

func (s *stubOrder) List(_ context.Context, filter usecase.OrderFilter) ([]*domain.Order, error) {
	return s.list(filter)
}

func (s *stubOrder) Summary(context.Context, int64) (*usecase.OrderSummary, error) {
	return nil, e.ErrNotFound
}

func (s *stubOrder) AddLineItem(_ context.Context, req *usecase.AddLineItemReq) (*domain.LineItem, error) {
	return s.addLineItem(req)
}

func (s *stubOrder) RemoveLineItem(_ context.Context, itemID int64) error {
	return s.removeLineItem(itemID)
}

func (s *stubOrder) Start(context.Context, int64) (*domain.Order, error) {
	return nil, e.ErrInvalidTransition
}

func (s *stubOrder) Cancel(_ context.Context, id int64) (*domain.Order, error) {
	return s.cancel(id)
}

func (s *stubOrder) Delete(context.Context, int64) error {
	return nil
}

type stubPayment struct {
	register func(req *usecase.RegisterPaymentReq) (*usecase.RegisterPaymentRes, error)
}

func (s *stubPayment) RegisterPayment(_ context.Context, req *usecase.RegisterPaymentReq) (*usecase.RegisterPaymentRes, error) {
	return s.register(req)
}

type stubSearch struct {
	search func(target, query string) ([]usecase.SearchResult, error)
}

func (s *stubSearch) Search(_ context.Context, target, query string) ([]usecase.SearchResult, error) {
	return s.search(target, query)
}
