package http

import (
	"fmt"

	_ "github.com/DRSN-tech/order-backoffice/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases собирает зависимости HTTP-слоя.
type UseCases struct {
	Catalog  usecase.CatalogUC
	Customer usecase.CustomerUC
	Stock    usecase.StockUC
	Order    usecase.OrderUC
	Payment  usecase.PaymentUC
	Search   usecase.SearchUC
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(uc UseCases, swaggerHost string, maxImageSize int64) {
	r.router.Use(middleware.RequestID, middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", swaggerHost)),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCategoryRoutes(v1, NewCategoryHandler(uc.Catalog, r.logger))
		registerProductRoutes(v1, NewProductHandler(uc.Catalog, r.logger, maxImageSize), NewStockHandler(uc.Stock, r.logger))
		registerCustomerRoutes(v1, NewCustomerHandler(uc.Customer, r.logger))
		registerOrderRoutes(v1, NewOrderHandler(uc.Order, r.logger), NewPaymentHandler(uc.Payment, r.logger))
		v1.Get("/search/{target}", NewSearchHandler(uc.Search).search)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(c chi.Router) {
		c.Get("/", h.listCategories)
		c.Post("/", h.createCategory)
		c.Get("/{id}", h.getCategory)
		c.Put("/{id}", h.updateCategory)
		c.Delete("/{id}", h.deleteCategory)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, stHandler *StockHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Get("/info", prHandler.getProductsInfo)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
		pr.Post("/{id}/image", prHandler.uploadImage)

		pr.Get("/{id}/stock", stHandler.getStock)
		pr.Put("/{id}/stock", stHandler.setStock)
		pr.Post("/{id}/stock/adjust", stHandler.adjustStock)
		pr.Get("/{id}/stock/movements", stHandler.listMovements)
	})
}

func registerCustomerRoutes(router chi.Router, h *CustomerHandler) {
	router.Route("/customers", func(c chi.Router) {
		c.Get("/", h.listCustomers)
		c.Post("/", h.createCustomer)
		c.Get("/{id}", h.getCustomer)
		c.Put("/{id}", h.updateCustomer)
		c.Delete("/{id}", h.deleteCustomer)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler, payHandler *PaymentHandler) {
	router.Route("/orders", func(o chi.Router) {
		o.Get("/", h.listOrders)
		o.Post("/", h.createOrder)
		o.Delete("/items/{itemID}", h.removeLineItem)
		o.Get("/{id}", h.getOrder)
		o.Delete("/{id}", h.deleteOrder)
		o.Get("/{id}/summary", h.getSummary)
		o.Post("/{id}/start", h.startOrder)
		o.Post("/{id}/cancel", h.cancelOrder)
		o.Post("/{id}/items", h.addLineItem)
		o.Post("/{id}/payments", payHandler.registerPayment)
	})
}
