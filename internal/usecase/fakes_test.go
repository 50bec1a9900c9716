package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
)

// memStore хранит общее in-memory состояние всех репозиториев. fakeTxManager
// снимает копию на входе во внешнюю транзакцию и восстанавливает её при ошибке.
type memStore struct {
	seq        int64
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	customers  map[int64]domain.Customer
	stock      map[int64]domain.StockEntry
	movements  []domain.StockMovement
	orders     map[int64]domain.Order
	items      map[int64]domain.LineItem
	payments   map[int64]domain.Payment
	outbox     []domain.OutboxEvent

	// skipStatusUpdate имитирует потерянное обновление статуса.
	skipStatusUpdate bool
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[int64]domain.Category{},
		products:   map[int64]domain.Product{},
		customers:  map[int64]domain.Customer{},
		stock:      map[int64]domain.StockEntry{},
		orders:     map[int64]domain.Order{},
		items:      map[int64]domain.LineItem{},
		payments:   map[int64]domain.Payment{},
	}
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		seq:              s.seq,
		categories:       make(map[int64]domain.Category, len(s.categories)),
		products:         make(map[int64]domain.Product, len(s.products)),
		customers:        make(map[int64]domain.Customer, len(s.customers)),
		stock:            make(map[int64]domain.StockEntry, len(s.stock)),
		movements:        append([]domain.StockMovement(nil), s.movements...),
		orders:           make(map[int64]domain.Order, len(s.orders)),
		items:            make(map[int64]domain.LineItem, len(s.items)),
		payments:         make(map[int64]domain.Payment, len(s.payments)),
		outbox:           append([]domain.OutboxEvent(nil), s.outbox...),
		skipStatusUpdate: s.skipStatusUpdate,
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

type fakeTxManager struct {
	store *memStore
	depth int
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.depth > 0 {
		return fn(ctx)
	}

	f.calls++
	snapshot := f.store.clone()
	f.depth++
	err := fn(ctx)
	f.depth--
	if err != nil {
		f.store.restore(snapshot)
	}
	return err
}

func matches(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// CATEGORIES

type memCategoryRepo struct{ s *memStore }

func (r memCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	c.ID = r.s.nextID()
	c.CreatedAt = time.Now()
	r.s.categories[c.ID] = *c
	out := *c
	return &out, nil
}

func (r memCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	old, ok := r.s.categories[c.ID]
	if !ok {
		return nil, e.ErrNotFound
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = old.CreatedAt, &now
	r.s.categories[c.ID] = *c
	out := *c
	return &out, nil
}

func (r memCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return e.ErrNotFound
	}
	for pid, p := range r.s.products {
		if p.CategoryID != id {
			continue
		}
		for _, item := range r.s.items {
			if item.ProductID == pid {
				return e.ErrInUse
			}
		}
	}
	for pid, p := range r.s.products {
		if p.CategoryID == id {
			delete(r.s.products, pid)
			delete(r.s.stock, pid)
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r memCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return &c, nil
}

func (r memCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, id := range sortedKeys(r.s.categories) {
		c := r.s.categories[id]
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r memCategoryRepo) Search(_ context.Context, q string, limit int) ([]SearchResult, error) {
	var out []SearchResult
	for _, id := range sortedKeys(r.s.categories) {
		c := r.s.categories[id]
		if matches(c.Name, q) && len(out) < limit {
			out = append(out, SearchResult{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

// PRODUCTS

type memProductRepo struct{ s *memStore }

func (r memProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return nil, e.ErrNotFound
	}
	p.ID = r.s.nextID()
	p.CreatedAt = time.Now()
	r.s.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (r memProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	old, ok := r.s.products[p.ID]
	if !ok {
		return nil, e.ErrNotFound
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt, p.ImageKey = old.CreatedAt, &now, old.ImageKey
	r.s.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (r memProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return e.ErrNotFound
	}
	for _, item := range r.s.items {
		if item.ProductID == id {
			return e.ErrInUse
		}
	}
	delete(r.s.products, id)
	delete(r.s.stock, id)
	return nil
}

func (r memProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return &p, nil
}

func (r memProductRepo) List(_ context.Context, categoryID *int64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range sortedKeys(r.s.products) {
		p := r.s.products[id]
		if categoryID == nil || p.CategoryID == *categoryID {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r memProductRepo) SetImageKey(_ context.Context, id int64, key *string) error {
	p, ok := r.s.products[id]
	if !ok {
		return e.ErrNotFound
	}
	p.ImageKey = key
	r.s.products[id] = p
	return nil
}

func (r memProductRepo) GetProductsInfo(_ context.Context, ids []int64) ([]*domain.ProductInfo, error) {
	var out []*domain.ProductInfo
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p.Info())
		}
	}
	return out, nil
}

func (r memProductRepo) Search(_ context.Context, q string, limit int) ([]SearchResult, error) {
	var out []SearchResult
	for _, id := range sortedKeys(r.s.products) {
		p := r.s.products[id]
		if matches(p.Name, q) && len(out) < limit {
			price := p.Price
			out = append(out, SearchResult{ID: p.ID, Name: p.Name, Price: &price, Image: p.ImageKey})
		}
	}
	return out, nil
}

// CUSTOMERS

type memCustomerRepo struct{ s *memStore }

func (r memCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.ID = r.s.nextID()
	c.CreatedAt = time.Now()
	r.s.customers[c.ID] = *c
	out := *c
	return &out, nil
}

func (r memCustomerRepo) Update(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	old, ok := r.s.customers[c.ID]
	if !ok {
		return nil, e.ErrNotFound
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = old.CreatedAt, &now
	r.s.customers[c.ID] = *c
	out := *c
	return &out, nil
}

func (r memCustomerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.customers[id]; !ok {
		return e.ErrNotFound
	}
	for _, o := range r.s.orders {
		if o.CustomerID == id {
			return e.ErrInUse
		}
	}
	delete(r.s.customers, id)
	return nil
}

func (r memCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return &c, nil
}

func (r memCustomerRepo) List(_ context.Context) ([]*domain.Customer, error) {
	var out []*domain.Customer
	for _, id := range sortedKeys(r.s.customers) {
		c := r.s.customers[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r memCustomerRepo) Search(_ context.Context, q string, limit int) ([]SearchResult, error) {
	var out []SearchResult
	for _, id := range sortedKeys(r.s.customers) {
		c := r.s.customers[id]
		if matches(c.Name, q) && len(out) < limit {
			out = append(out, SearchResult{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

// STOCK

type memStockRepo struct{ s *memStore }

func (r memStockRepo) GetOrCreateForUpdate(_ context.Context, productID int64) (*domain.StockEntry, error) {
	if _, ok := r.s.products[productID]; !ok {
		return nil, e.ErrNotFound
	}
	entry, ok := r.s.stock[productID]
	if !ok {
		entry = *domain.NewStockEntry(productID)
		r.s.stock[productID] = entry
	}
	return &entry, nil
}

// Save повторяет CHECK-ограничения stock_entries: только неотрицательные значения,
// резерв может превышать остаток.
func (r memStockRepo) Save(_ context.Context, entry *domain.StockEntry) error {
	if entry.Quantity < 0 || entry.Reserved < 0 {
		return errors.New("check constraint violated")
	}
	entry.UpdatedAt = time.Now()
	r.s.stock[entry.ProductID] = *entry
	return nil
}

func (r memStockRepo) AddMovement(_ context.Context, m *domain.StockMovement) error {
	m.ID = r.s.nextID()
	m.CreatedAt = time.Now()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memStockRepo) ListMovements(_ context.Context, productID int64, limit int) ([]*domain.StockMovement, error) {
	var out []*domain.StockMovement
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if m := r.s.movements[i]; m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r memStockRepo) CommittedQuantity(_ context.Context, orderID, productID int64) (int64, error) {
	var committed int64
	for _, m := range r.s.movements {
		if m.Kind == domain.MovementCommit && m.ProductID == productID && m.OrderID != nil && *m.OrderID == orderID {
			committed -= m.Delta
		}
	}
	return committed, nil
}

// ORDERS

type memOrderRepo struct{ s *memStore }

func (r memOrderRepo) load(id int64) (*domain.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	o.Items, o.Payments = nil, nil
	for _, itemID := range sortedKeys(r.s.items) {
		if item := r.s.items[itemID]; item.OrderID == id {
			o.Items = append(o.Items, &item)
		}
	}
	for _, paymentID := range sortedKeys(r.s.payments) {
		if p := r.s.payments[paymentID]; p.OrderID == id {
			o.Payments = append(o.Payments, &p)
		}
	}
	return &o, nil
}

func (r memOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if _, ok := r.s.customers[o.CustomerID]; !ok {
		return nil, e.ErrNotFound
	}
	o.ID = r.s.nextID()
	o.CreatedAt = time.Now()
	stored := *o
	stored.Items, stored.Payments = nil, nil
	r.s.orders[o.ID] = stored
	return r.load(o.ID)
}

func (r memOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	return r.load(id)
}

func (r memOrderRepo) GetForUpdate(_ context.Context, id int64) (*domain.Order, error) {
	return r.load(id)
}

func (r memOrderRepo) List(_ context.Context, f OrderFilter) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, id := range sortedKeys(r.s.orders) {
		o := r.s.orders[id]
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		loaded, _ := r.load(id)
		out = append(out, loaded)
	}
	return out, nil
}

func (r memOrderRepo) UpdateStatus(_ context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	o, ok := r.s.orders[id]
	if !ok || o.Status != from || r.s.skipStatusUpdate {
		return false, nil
	}
	o.Status = to
	r.s.orders[id] = o
	return true, nil
}

func (r memOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.orders[id]; !ok {
		return e.ErrNotFound
	}
	for itemID, item := range r.s.items {
		if item.OrderID == id {
			delete(r.s.items, itemID)
		}
	}
	for paymentID, p := range r.s.payments {
		if p.OrderID == id {
			delete(r.s.payments, paymentID)
		}
	}
	for i, m := range r.s.movements {
		if m.OrderID != nil && *m.OrderID == id {
			r.s.movements[i].OrderID = nil
		}
	}
	delete(r.s.orders, id)
	return nil
}

type memLineItemRepo struct{ s *memStore }

func (r memLineItemRepo) Create(_ context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	item.ID = r.s.nextID()
	item.CreatedAt = time.Now()
	r.s.items[item.ID] = *item
	out := *item
	return &out, nil
}

func (r memLineItemRepo) GetByID(_ context.Context, id int64) (*domain.LineItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return &item, nil
}

func (r memLineItemRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.items[id]; !ok {
		return e.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

type memPaymentRepo struct{ s *memStore }

func (r memPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	p.ID = r.s.nextID()
	p.CreatedAt = time.Now()
	r.s.payments[p.ID] = *p
	out := *p
	return &out, nil
}

func (r memPaymentRepo) ListByOrder(_ context.Context, orderID int64) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, id := range sortedKeys(r.s.payments) {
		if p := r.s.payments[id]; p.OrderID == orderID {
			out = append(out, &p)
		}
	}
	return out, nil
}

type memOutboxRepo struct{ s *memStore }

func (r memOutboxRepo) Create(_ context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error) {
	event.ID = r.s.nextID()
	event.CreatedAt = time.Now()
	r.s.outbox = append(r.s.outbox, *event)
	out := *event
	return &out, nil
}

func (r memOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for i := range r.s.outbox {
		if len(out) == limit {
			break
		}
		if r.s.outbox[i].Status == domain.OutboxStatusPending {
			r.s.outbox[i].Status = domain.OutboxStatusProcessing
			ev := r.s.outbox[i]
			out = append(out, &ev)
		}
	}
	return out, nil
}

func (r memOutboxRepo) setStatus(id int64, status domain.OutboxStatus) error {
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Status = status
			return nil
		}
	}
	return e.ErrNotFound
}

func (r memOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	return r.setStatus(id, domain.OutboxStatusProcessed)
}

func (r memOutboxRepo) ReturnToPending(_ context.Context, id int64) error {
	return r.setStatus(id, domain.OutboxStatusPending)
}

// CACHE / IDEMPOTENCY / IMAGES

type fakeCache struct {
	mu       sync.Mutex
	products map[int64]*domain.ProductInfo
	deleted  []int64
	getErr   error
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: map[int64]*domain.ProductInfo{}}
}

func (c *fakeCache) GetProducts(_ context.Context, ids []int64) (map[int64]*domain.ProductInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	out := map[int64]*domain.ProductInfo{}
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *fakeCache) SetProducts(_ context.Context, products []*domain.ProductInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	for _, p := range products {
		c.products[p.ID] = p
	}
	return nil
}

func (c *fakeCache) DeleteProducts(_ context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.products, id)
	}
	c.deleted = append(c.deleted, ids...)
	return nil
}

func (c *fakeCache) cached(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.products[id]
	return ok
}

type fakeIdempotency struct {
	keys       map[string]bool
	reserveErr error
	released   []string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: map[string]bool{}}
}

func (f *fakeIdempotency) Reserve(_ context.Context, key string) (bool, error) {
	if f.reserveErr != nil {
		return false, f.reserveErr
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	delete(f.keys, key)
	f.released = append(f.released, key)
	return nil
}

type fakeImages struct {
	uploaded  []string
	cleaned   []string
	uploadErr error
}

func (f *fakeImages) UploadProductImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	key := "products/" + req.Image.Name
	f.uploaded = append(f.uploaded, key)
	return &UploadImageRes{ObjectKey: key}, nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys...)
}
