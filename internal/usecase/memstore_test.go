package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// memStore はシナリオテスト用のインメモリ実装。
// カテゴリ削除は商品とカート明細までカスケードする（DBのON DELETE CASCADEと同じ）。
type memStore struct {
	mu     sync.Mutex
	nextID int64

	categories map[int64]model.Category
	products   map[int64]model.Product
	carts      map[int64]model.Cart // key: userID
	cartItems  map[int64]model.CartItem
	orders     map[int64]model.Order
	audit      []model.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[int64]model.Category{},
		products:   map[int64]model.Product{},
		carts:      map[int64]model.Cart{},
		cartItems:  map[int64]model.CartItem{},
		orders:     map[int64]model.Order{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Categories() *memCategories { return &memCategories{s} }
func (s *memStore) Products() repo.ProductRepository { return &memProducts{s} }
func (s *memStore) Carts() repo.CartRepository { return &memCarts{s} }
func (s *memStore) Orders() repo.OrderRepository { return &memOrders{s} }
func (s *memStore) AuditLogs() repo.AuditLogRepository { return &memAudit{s} }

// ロールバックは無い（fnがエラーでもそのまま）
func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s)
}

// =====================
// categories
// =====================

type memCategories struct{ s *memStore }

func (r *memCategories) List(ctx context.Context, withProducts bool) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if withProducts {
			c.Products = r.s.productsOf(c.ID)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCategories) FindByID(ctx context.Context, id int64) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	c.Products = r.s.productsOf(id)
	return c, nil
}

func (r *memCategories) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			c.Products = r.s.productsOf(c.ID)
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (r *memCategories) Create(ctx context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.categories {
		if other.Slug == c.Slug {
			return repo.ErrDuplicate
		}
	}
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.categories[c.ID] = *c
	return nil
}

func (r *memCategories) Update(ctx context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.categories[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name, cur.Slug, cur.Image = c.Name, c.Slug, c.Image
	cur.UpdatedAt = time.Now()
	r.s.categories[c.ID] = cur
	*c = cur
	return nil
}

func (r *memCategories) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.categories, id)
	for pid, p := range r.s.products {
		if p.CategoryID == id {
			r.s.deleteProduct(pid)
		}
	}
	return nil
}

func (r *memCategories) UpsertBySlug(ctx context.Context, c *model.Category) error {
	if existing, err := r.FindBySlug(ctx, c.Slug); err == nil {
		*c = existing
		return nil
	}
	return r.Create(ctx, c)
}

// =====================
// products
// =====================

type memProducts struct{ s *memStore }

func (r *memProducts) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := map[int64]bool{}
	for _, id := range f.IDs {
		want[id] = true
	}

	out := []model.Product{}
	for _, p := range r.s.products {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if len(want) > 0 && !want[p.ID] {
			continue
		}
		out = append(out, r.s.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return r.s.withCategory(p), nil
}

func (r *memProducts) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.products {
		if p.Slug == slug {
			return r.s.withCategory(p), nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (r *memProducts) Create(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.products {
		if other.Slug == p.Slug {
			return repo.ErrDuplicate
		}
	}
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProducts) Update(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProducts) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	r.s.deleteProduct(id)
	return nil
}

func (r *memProducts) UpsertBySlug(ctx context.Context, p *model.Product) error {
	if existing, err := r.FindBySlug(ctx, p.Slug); err == nil {
		*p = existing
		return nil
	}
	return r.Create(ctx, p)
}

// =====================
// carts
// =====================

type memCarts struct{ s *memStore }

func (r *memCarts) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.carts[userID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	c.CartItems = []model.CartItem{}
	for _, it := range r.s.cartItems {
		if it.CartID != c.ID {
			continue
		}
		if p, ok := r.s.products[it.ProductID]; ok {
			it.Product = &p
		}
		c.CartItems = append(c.CartItems, it)
	}
	sort.Slice(c.CartItems, func(i, j int) bool { return c.CartItems[i].ID < c.CartItems[j].ID })
	return c, nil
}

func (r *memCarts) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.carts[userID]; ok {
		return c, nil
	}
	c := model.Cart{ID: r.s.id(), UserID: userID}
	r.s.carts[userID] = c
	return c, nil
}

func (r *memCarts) UpsertItem(ctx context.Context, cartID int64, productID int64, addQty int64, price decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, it := range r.s.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			it.Quantity += addQty
			r.s.cartItems[id] = it
			return nil
		}
	}
	id := r.s.id()
	r.s.cartItems[id] = model.CartItem{ID: id, CartID: cartID, ProductID: productID, Quantity: addQty, Price: price}
	return nil
}

func (r *memCarts) DeleteItemForUser(ctx context.Context, userID int64, cartItemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.carts[userID]
	it, found := r.s.cartItems[cartItemID]
	if !ok || !found || it.CartID != c.ID {
		return repo.ErrNotFound
	}
	delete(r.s.cartItems, cartItemID)
	return nil
}

func (r *memCarts) ClearByUserID(ctx context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.carts[userID]
	if !ok {
		return nil
	}
	for id, it := range r.s.cartItems {
		if it.CartID == c.ID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

// =====================
// orders
// =====================

type memOrders struct{ s *memStore }

func (r *memOrders) List(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.Order{}
	for _, o := range r.s.orders {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		out = append(out, r.s.withProducts(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memOrders) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return r.s.withProducts(o), nil
}

func (r *memOrders) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	return r.FindByID(ctx, orderID)
}

func (r *memOrders) Create(ctx context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = r.s.id()
	items := make([]model.OrderItem, len(order.OrderItems))
	for i, it := range order.OrderItems {
		it.ID = r.s.id()
		it.OrderID = order.ID
		items[i] = it
	}
	order.OrderItems = items
	order.CreatedAt = time.Now()
	r.s.orders[order.ID] = *order
	return nil
}

func (r *memOrders) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return r.update(orderID, func(o *model.Order) { o.Status = status })
}

func (r *memOrders) SetCheckoutSession(ctx context.Context, orderID int64, sessionID string) error {
	return r.update(orderID, func(o *model.Order) { o.CheckoutSessionID = &sessionID })
}

func (r *memOrders) MarkPaid(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return r.update(orderID, func(o *model.Order) {
		o.IsPaid = true
		o.Status = status
	})
}

func (r *memOrders) update(orderID int64, fn func(o *model.Order)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	fn(&o)
	r.s.orders[orderID] = o
	return nil
}

// =====================
// audit
// =====================

type memAudit struct{ s *memStore }

func (r *memAudit) Create(ctx context.Context, log model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log.ID = r.s.id()
	r.s.audit = append(r.s.audit, log)
	return nil
}

func (r *memAudit) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.AuditLog, len(r.s.audit))
	copy(out, r.s.audit)
	return out, nil
}

// =====================
// helpers（ロック取得済みで呼ぶ）
// =====================

func (s *memStore) productsOf(categoryID int64) []model.Product {
	out := []model.Product{}
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) withCategory(p model.Product) model.Product {
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (s *memStore) deleteProduct(id int64) {
	delete(s.products, id)
	for cid, it := range s.cartItems {
		if it.ProductID == id {
			delete(s.cartItems, cid)
		}
	}
}

// 商品が消えていても明細は残る（productはnil）
func (s *memStore) withProducts(o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.OrderItems))
	for i, it := range o.OrderItems {
		if p, ok := s.products[it.ProductID]; ok {
			it.Product = &p
		} else {
			it.Product = nil
		}
		items[i] = it
	}
	o.OrderItems = items
	return o
}
