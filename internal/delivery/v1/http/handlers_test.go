package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxImageSize = 1024

type testAPI struct {
	mux      *chi.Mux
	catalog  *stubCatalog
	customer *stubCustomer
	stock    *stubStock
	order    *stubOrder
	payment  *stubPayment
	search   *stubSearch
}

func newTestAPI() *testAPI {
	api := &testAPI{
		mux:      chi.NewRouter(),
		catalog:  &stubCatalog{},
		customer: &stubCustomer{},
		stock:    &stubStock{},
		order:    &stubOrder{},
		payment:  &stubPayment{},
		search:   &stubSearch{},
	}

	NewRouter(api.mux, logger.NewNop()).Init(UseCases{
		Catalog:  api.catalog,
		Customer: api.customer,
		Stock:    api.stock,
		Order:    api.order,
		Payment:  api.payment,
		Search:   api.search,
	}, "localhost:8080", testMaxImageSize)

	return api
}

func (a *testAPI) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateCategory(t *testing.T) {
	api := newTestAPI()
	var got *usecase.CategoryReq
	api.catalog.createCategory = func(req *usecase.CategoryReq) (*domain.Category, error) {
		got = req
		return &domain.Category{ID: 5, Name: req.Name, DisplayOrder: req.DisplayOrder}, nil
	}

	rec := api.do(http.MethodPost, "/api/v1/categories", `{"name":"Bolos","order":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bolos", got.Name)
	assert.Equal(t, 2, got.DisplayOrder)

	body := decodeBody[CategoryResponse](t, rec)
	assert.Equal(t, int64(5), body.ID)
	assert.Equal(t, 2, body.DisplayOrder)
}

func TestCreateCategoryValidationFields(t *testing.T) {
	api := newTestAPI()
	api.catalog.createCategory = func(*usecase.CategoryReq) (*domain.Category, error) {
		return nil, e.Wrap("CatalogUseCase.CreateCategory", e.FieldError("name", "must be at least 3 characters"))
	}

	rec := api.do(http.MethodPost, "/api/v1/categories", `{"name":"ab"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "must be at least 3 characters", body.Fields["name"])
}

func TestCreateCategoryRejectsMalformedJSON(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/v1/categories", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/categories", `{"name":"Bolos","unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCategoryInUse(t *testing.T) {
	api := newTestAPI()
	api.catalog.deleteCategory = func(id int64) error {
		assert.Equal(t, int64(3), id)
		return e.Wrap("op", e.ErrInUse)
	}

	rec := api.do(http.MethodDelete, "/api/v1/categories/3", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInvalidPathID(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodDelete, "/api/v1/categories/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProductsByCategory(t *testing.T) {
	api := newTestAPI()
	var got *int64
	api.catalog.listProducts = func(categoryID *int64) ([]*domain.Product, error) {
		got = categoryID
		return []*domain.Product{{ID: 1, Name: "Bolo", Price: dec("1234.5"), CategoryID: 2}}, nil
	}

	rec := api.do(http.MethodGet, "/api/v1/products?category_id=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), *got)

	body := decodeBody[[]ProductResponse](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, "1234.50", body[0].Price.Amount)
	assert.Equal(t, "R$ 1.234,50", body[0].Price.Formatted)
}

func TestProductsInfo(t *testing.T) {
	api := newTestAPI()
	api.catalog.productsInfo = func(req *usecase.GetProductsReq) (*usecase.GetProductsRes, error) {
		assert.Equal(t, []int64{1, 2}, req.IDs)
		return usecase.NewGetProductsRes([]*domain.ProductInfo{{ID: 1, Name: "Bolo", Price: dec("10")}}, []int64{2}), nil
	}

	rec := api.do(http.MethodGet, "/api/v1/products/info?ids=1,2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[ProductsInfoResponse](t, rec)
	require.Len(t, body.Products, 1)
	assert.Equal(t, []int64{2}, body.NotFound)
}

func TestProductsInfoRequiresIDs(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodGet, "/api/v1/products/info", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is required", decodeBody[ErrorResponse](t, rec).Fields["ids"])
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "cake.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUploadImageDetectsContentType(t *testing.T) {
	api := newTestAPI()
	var got *usecase.ProductImage
	api.catalog.uploadImage = func(productID int64, img *usecase.ProductImage) (*domain.Product, error) {
		got = img
		key := "products/7/x.png"
		return &domain.Product{ID: productID, Name: "Bolo", ImageKey: &key}, nil
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	body, contentType := multipartImage(t, png)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/7/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, int64(len(png)), got.Size)
}

func TestUploadImageTooLarge(t *testing.T) {
	api := newTestAPI()
	body, contentType := multipartImage(t, make([]byte, testMaxImageSize+1))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/7/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadImageRequiresMultipart(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/v1/products/7/image", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetStockRequiresQuantity(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPut, "/api/v1/products/1/stock", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is required", decodeBody[ErrorResponse](t, rec).Fields["quantity"])
}

func TestSetStock(t *testing.T) {
	api := newTestAPI()
	api.stock.setAbsolute = func(productID, quantity int64) (*domain.StockEntry, error) {
		return &domain.StockEntry{ProductID: productID, Quantity: quantity, Reserved: 2}, nil
	}

	rec := api.do(http.MethodPut, "/api/v1/products/1/stock", `{"quantity":10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[StockResponse](t, rec)
	assert.Equal(t, int64(10), body.Quantity)
	assert.Equal(t, int64(8), body.Available)
}

func TestListMovementsPassesLimit(t *testing.T) {
	api := newTestAPI()
	var gotLimit int
	api.stock.movements = func(productID int64, limit int) ([]*domain.StockMovement, error) {
		gotLimit = limit
		return []*domain.StockMovement{{ID: 1, ProductID: productID, Kind: domain.MovementReserve, Delta: 2}}, nil
	}

	rec := api.do(http.MethodGet, "/api/v1/products/1/stock/movements?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	body := decodeBody[[]MovementResponse](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, "reserve", body[0].Kind)
}

func TestCreateCustomerBirthDateFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "iso", input: "1990-03-07"},
		{name: "local", input: "07/03/1990"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI()
			var got *usecase.CustomerReq
			api.customer.create = func(req *usecase.CustomerReq) (*domain.Customer, error) {
				got = req
				return domain.NewCustomer(req.Name, req.TaxID, req.BirthDate), nil
			}

			rec := api.do(http.MethodPost, "/api/v1/customers",
				`{"name":" Ana ","tax_id":"123","birth_date":"`+tt.input+`"}`)

			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, "Ana", got.Name)
			assert.Equal(t, time.Date(1990, time.March, 7, 0, 0, 0, 0, time.UTC), got.BirthDate)
			assert.Equal(t, "07/03/1990", decodeBody[CustomerResponse](t, rec).BirthDateFormatted)
		})
	}
}

func TestCreateCustomerInvalidBirthDate(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/v1/customers", `{"name":"Ana","tax_id":"1","birth_date":"31/02/1990"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is invalid", decodeBody[ErrorResponse](t, rec).Fields["birth_date"])
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	api := newTestAPI()
	api.customer.delete = func(int64) error { return e.Wrap("op", e.ErrInUse) }

	rec := api.do(http.MethodDelete, "/api/v1/customers/1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetOrderDetail(t *testing.T) {
	api := newTestAPI()
	api.order.get = func(id int64) (*domain.Order, error) {
		return &domain.Order{
			ID:     id,
			Status: domain.OrderStatusInProgress,
			Items: []*domain.LineItem{
				domain.NewLineItem(id, 1, 2, dec("25.00")),
				domain.NewLineItem(id, 2, 1, dec("50.00")),
			},
			Payments: []*domain.Payment{
				domain.NewPayment(id, dec("30"), domain.PaymentMethodPix, domain.PaymentTypeFull, 1),
			},
		}, nil
	}

	rec := api.do(http.MethodGet, "/api/v1/orders/9", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[OrderResponse](t, rec)
	assert.Equal(t, int64(9), body.ID)
	assert.Equal(t, "in_progress", body.Status)
	assert.Equal(t, "100.00", body.Total.Amount)
	assert.Equal(t, "30.00", body.Paid.Amount)
	assert.Equal(t, "R$ 70,00", body.RemainingDebt.Formatted)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, "50.00", body.Items[0].Subtotal.Amount)
	assert.Len(t, body.Payments, 1)
}

func TestListOrdersFilter(t *testing.T) {
	api := newTestAPI()
	var got usecase.OrderFilter
	api.order.list = func(filter usecase.OrderFilter) ([]*domain.Order, error) {
		got = filter
		return []*domain.Order{{ID: 1, Status: domain.OrderStatusNew}}, nil
	}

	rec := api.do(http.MethodGet, "/api/v1/orders?status=new&customer_id=4", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.OrderStatusNew, *got.Status)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, int64(4), *got.CustomerID)
}

func TestAddLineItemInsufficientStock(t *testing.T) {
	api := newTestAPI()
	api.order.addLineItem = func(req *usecase.AddLineItemReq) (*domain.LineItem, error) {
		assert.Equal(t, int64(3), req.OrderID)
		assert.Nil(t, req.UnitPrice)
		return nil, e.Wrap("op", &e.InsufficientStockError{ProductID: req.ProductID, Requested: req.Quantity, Available: 3})
	}

	rec := api.do(http.MethodPost, "/api/v1/orders/3/items", `{"product_id":1,"quantity":5}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields["quantity"], "available 3")
}

func TestRemoveLineItemRoute(t *testing.T) {
	api := newTestAPI()
	var got int64
	api.order.removeLineItem = func(itemID int64) error {
		got = itemID
		return nil
	}

	rec := api.do(http.MethodDelete, "/api/v1/orders/items/12", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(12), got)
}

func TestCancelConcludedOrder(t *testing.T) {
	api := newTestAPI()
	api.order.cancel = func(int64) (*domain.Order, error) {
		return nil, e.Wrap("op", e.ErrInvalidTransition)
	}

	rec := api.do(http.MethodPost, "/api/v1/orders/1/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterPayment(t *testing.T) {
	api := newTestAPI()
	var got *usecase.RegisterPaymentReq
	api.payment.register = func(req *usecase.RegisterPaymentReq) (*usecase.RegisterPaymentRes, error) {
		got = req
		order := &domain.Order{ID: req.OrderID, Status: domain.OrderStatusConcluded}
		payment := domain.NewPayment(req.OrderID, dec("50"), domain.PaymentMethodCash, domain.PaymentTypeFull, 1)
		return &usecase.RegisterPaymentRes{Payment: payment, Summary: usecase.NewOrderSummary(order), Settled: true}, nil
	}

	rec := api.do(http.MethodPost, "/api/v1/orders/4/payments",
		`{"amount":"50,00","method":"dinheiro","type":"a_vista","installments":0}`,
		idempotencyHeader, " key-1 ")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(4), got.OrderID)
	assert.Equal(t, "50,00", got.Amount)
	assert.Equal(t, "dinheiro", got.Method)
	assert.Equal(t, "key-1", got.IdempotencyKey)

	body := decodeBody[RegisterPaymentResponse](t, rec)
	assert.True(t, body.Settled)
	assert.Equal(t, "concluded", body.Order.Status)
	assert.Equal(t, "50.00", body.Payment.Amount.Amount)
}

func TestRegisterPaymentErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  int
		field string
	}{
		{
			name:  "exceeds debt",
			err:   &e.DebtExceededError{Amount: dec("150"), RemainingDebt: dec("100")},
			code:  http.StatusConflict,
			field: "amount",
		},
		{name: "bad amount", err: e.ErrInvalidAmountFormat, code: http.StatusBadRequest, field: "amount"},
		{name: "duplicate", err: e.ErrDuplicateRequest, code: http.StatusConflict},
		{name: "closed", err: e.ErrOrderClosed, code: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI()
			api.payment.register = func(*usecase.RegisterPaymentReq) (*usecase.RegisterPaymentRes, error) {
				return nil, e.Wrap("PaymentUseCase.RegisterPayment", tt.err)
			}

			rec := api.do(http.MethodPost, "/api/v1/orders/4/payments", `{"amount":"150,00","method":"cash","type":"full"}`)

			require.Equal(t, tt.code, rec.Code)
			if tt.field != "" {
				assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Fields[tt.field])
			}
		})
	}
}

func TestSearch(t *testing.T) {
	api := newTestAPI()
	api.search.search = func(target, query string) ([]usecase.SearchResult, error) {
		if target != "product" {
			return nil, e.ErrUnknownSearchTarget
		}
		price := dec("9.9")
		return []usecase.SearchResult{{ID: 1, Name: "Bolo " + query, Price: &price}}, nil
	}

	rec := api.do(http.MethodGet, "/api/v1/search/product?q=fuba", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[[]SearchResultResponse](t, rec)
	require.Len(t, body, 1)
	require.NotNil(t, body[0].Price)
	assert.Equal(t, "9.90", body[0].Price.Amount)
	assert.Nil(t, body[0].Image)

	rec = api.do(http.MethodGet, "/api/v1/search/invoice?q=x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
