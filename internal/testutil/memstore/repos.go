package memstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/internal/domain/user"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/query"
)

// ===== 购物车 =====

type cartRepo struct{ s *Store }

// Carts 购物车仓储
func (s *Store) Carts() cart.Repository { return &cartRepo{s: s} }

func (r *cartRepo) Create(ctx context.Context, c *cart.Cart) error {
	defer r.s.write(ctx)()
	c.ID = r.s.data.next("carts")
	row := *c
	row.LineItems = nil
	r.s.data.carts[c.ID] = row
	return nil
}

func (r *cartRepo) FindByID(ctx context.Context, id uint) (*cart.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.data.carts[id]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	c := row
	c.LineItems = []*cart.LineItem{}
	for _, liID := range sortedKeys(r.s.data.lineItems) {
		li := r.s.data.lineItems[liID]
		if li.CartID == id {
			c.LineItems = append(c.LineItems, &li)
		}
	}
	return &c, nil
}

// LockByID 事务已串行化，等价于FindByID
func (r *cartRepo) LockByID(ctx context.Context, id uint) (*cart.Cart, error) {
	return r.FindByID(ctx, id)
}

func (r *cartRepo) Update(ctx context.Context, c *cart.Cart) error {
	if err := r.s.injected(OpCartUpdate); err != nil {
		return err
	}
	defer r.s.write(ctx)()
	if _, ok := r.s.data.carts[c.ID]; !ok {
		return cart.ErrCartNotFound
	}
	row := *c
	row.LineItems = nil
	r.s.data.carts[c.ID] = row
	return nil
}

func (r *cartRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.write(ctx)()
	if _, ok := r.s.data.carts[id]; !ok {
		return cart.ErrCartNotFound
	}
	for liID, li := range r.s.data.lineItems {
		if li.CartID == id {
			delete(r.s.data.lineItems, liID)
		}
	}
	delete(r.s.data.carts, id)
	return nil
}

type lineItemRepo struct{ s *Store }

// LineItems 购物车明细仓储
func (s *Store) LineItems() cart.LineItemRepository { return &lineItemRepo{s: s} }

func (r *lineItemRepo) Create(ctx context.Context, li *cart.LineItem) error {
	if li.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}
	if err := r.s.injected(OpLineItemCreate); err != nil {
		return err
	}
	defer r.s.write(ctx)()
	li.ID = r.s.data.next("line_items")
	r.s.data.lineItems[li.ID] = *li
	return nil
}

func (r *lineItemRepo) UpdateQuantity(ctx context.Context, li *cart.LineItem) error {
	if err := r.s.injected(OpLineItemUpdate); err != nil {
		return err
	}
	defer r.s.write(ctx)()
	row, ok := r.s.data.lineItems[li.ID]
	if !ok {
		return cart.ErrLineItemNotFound
	}
	row.Quantity = li.Quantity
	row.TotalPrice = li.TotalPrice
	row.UpdatedAt = li.UpdatedAt
	r.s.data.lineItems[li.ID] = row
	return nil
}

func (r *lineItemRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.write(ctx)()
	if _, ok := r.s.data.lineItems[id]; !ok {
		return cart.ErrLineItemNotFound
	}
	delete(r.s.data.lineItems, id)
	return nil
}

// ===== 库存 =====

type inventoryRepo struct{ s *Store }

// Inventories 库存仓储
func (s *Store) Inventories() inventory.Repository { return &inventoryRepo{s: s} }

func (r *inventoryRepo) Create(ctx context.Context, inv *inventory.Inventory) error {
	if err := r.s.injected(OpInventoryCreate); err != nil {
		return err
	}
	defer r.s.write(ctx)()
	if _, ok := r.s.data.inventories[inv.BookID]; ok {
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存记录已存在")
	}
	r.s.data.inventories[inv.BookID] = *inv
	return nil
}

func (r *inventoryRepo) FindByBookID(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.data.inventories[bookID]
	if !ok {
		return nil, inventory.ErrInventoryNotFound
	}
	return &inv, nil
}

func (r *inventoryRepo) LockByBookID(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return r.FindByBookID(ctx, bookID)
}

func (r *inventoryRepo) DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error) {
	defer r.s.write(ctx)()
	inv, ok := r.s.data.inventories[bookID]
	if !ok || inv.Stock < quantity {
		return false, nil
	}
	inv.Stock -= quantity
	inv.UpdatedAt = time.Now()
	r.s.data.inventories[bookID] = inv
	return true, nil
}

type inventoryLogRepo struct{ s *Store }

// InventoryLogRepo 库存日志仓储
func (s *Store) InventoryLogRepo() inventory.LogRepository { return &inventoryLogRepo{s: s} }

func (r *inventoryLogRepo) BatchCreate(ctx context.Context, logs []*inventory.Log) error {
	if err := r.s.injected(OpInventoryLogWrite); err != nil {
		return err
	}
	defer r.s.write(ctx)()
	for _, l := range logs {
		l.ID = r.s.data.next("inventory_logs")
		r.s.data.inventoryLogs[l.ID] = *l
	}
	return nil
}

func (r *inventoryLogRepo) ListByBookID(ctx context.Context, bookID uint, page query.Pagination) ([]*inventory.Log, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*inventory.Log
	for _, id := range sortedKeys(r.s.data.inventoryLogs) {
		l := r.s.data.inventoryLogs[id]
		if l.BookID == bookID {
			all = append(all, &l)
		}
	}
	return paginate(all, page), int64(len(all)), nil
}

// ===== 订单 =====

type orderRepo struct{ s *Store }

// Orders 订单仓储
func (s *Store) Orders() order.Repository { return &orderRepo{s: s} }

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	if err := r.s.injected(OpOrderCreate); err != nil {
		return err
	}
	defer r.s.write(ctx)()
	for _, existing := range r.s.data.orders {
		if existing.OrderNo == o.OrderNo {
			return order.ErrOrderNoGenerate
		}
	}
	o.ID = r.s.data.next("orders")
	for i := range o.Items {
		o.Items[i].ID = r.s.data.next("order_items")
		o.Items[i].OrderID = o.ID
	}
	row := *o
	row.Items = append([]order.OrderItem(nil), o.Items...)
	r.s.data.orders[o.ID] = row
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.data.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	o := row
	o.Items = append([]order.OrderItem(nil), row.Items...)
	return &o, nil
}

func (r *orderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.data.orders {
		if row.OrderNo == orderNo {
			o := row
			o.Items = append([]order.OrderItem(nil), row.Items...)
			return &o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *orderRepo) List(ctx context.Context, filters []query.Filter, page query.Pagination) ([]*order.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*order.Order
	for _, id := range sortedKeys(r.s.data.orders) {
		row := r.s.data.orders[id]
		ok, err := matchAll(filters, func(field string) (int64, bool) {
			switch field {
			case "customer_id":
				return int64(row.CustomerID), true
			case "cart_id":
				return int64(row.CartID), true
			case "status":
				return int64(row.Status), true
			case "total":
				return row.Total, true
			}
			return 0, false
		})
		if err != nil {
			return nil, 0, err
		}
		if ok {
			o := row
			o.Items = append([]order.OrderItem(nil), row.Items...)
			all = append(all, &o)
		}
	}
	return paginate(all, page), int64(len(all)), nil
}

// ===== 图书 =====

type bookRepo struct{ s *Store }

// Books 图书仓储
func (s *Store) Books() book.Repository { return &bookRepo{s: s} }

func (r *bookRepo) Create(ctx context.Context, b *book.Book) error {
	defer r.s.write(ctx)()
	for _, existing := range r.s.data.books {
		if existing.ISBN == b.ISBN {
			return book.ErrISBNDuplicate
		}
	}
	b.ID = r.s.data.next("books")
	r.s.data.books[b.ID] = *b
	return nil
}

func (r *bookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.data.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *bookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.data.books {
		if b.ISBN == isbn {
			b := b
			return &b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *bookRepo) Update(ctx context.Context, b *book.Book) error {
	defer r.s.write(ctx)()
	if _, ok := r.s.data.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.s.data.books[b.ID] = *b
	return nil
}

func (r *bookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*book.Book
	for _, id := range sortedKeys(r.s.data.books) {
		b := r.s.data.books[id]
		if kw := params.Keyword; kw != "" &&
			!strings.Contains(b.Title, kw) && !strings.Contains(b.Author, kw) && !strings.Contains(b.Publisher, kw) {
			continue
		}
		ok, err := matchAll(params.Filters, func(field string) (int64, bool) {
			switch field {
			case "price":
				return b.Price, true
			case "publisher_id":
				return int64(b.PublisherID), true
			}
			return 0, false
		})
		if err != nil {
			return nil, 0, err
		}
		if ok {
			all = append(all, &b)
		}
	}
	return paginate(all, params.Page), int64(len(all)), nil
}

// ===== 用户 =====

type userRepo struct{ s *Store }

// Users 用户仓储
func (s *Store) Users() user.Repository { return &userRepo{s: s} }

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	defer r.s.write(ctx)()
	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = r.s.data.next("users")
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// ===== 过滤与分页 =====

func paginate[T any](all []T, page query.Pagination) []T {
	p := page.Normalize()
	start := p.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// matchAll 按白名单字段逐个匹配，字段未知返回query.ErrInvalidFilter
func matchAll(filters []query.Filter, value func(field string) (int64, bool)) (bool, error) {
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return false, query.ErrInvalidFilter.WithCause(err)
		}
		v, ok := value(f.Field)
		if !ok {
			return false, query.ErrInvalidFilter.WithCause(fmt.Errorf("unknown field %q", f.Field))
		}
		operands := make([]int64, len(f.Values))
		for i, raw := range f.Values {
			n, err := toInt64(raw)
			if err != nil {
				return false, query.ErrInvalidFilter.WithCause(err)
			}
			operands[i] = n
		}
		if !matchOne(f.Op, v, operands) {
			return false, nil
		}
	}
	return true, nil
}

func matchOne(op query.Op, v int64, operands []int64) bool {
	switch op {
	case query.OpEqual:
		return v == operands[0]
	case query.OpLessThanOrEqual:
		return v <= operands[0]
	case query.OpGreaterThanOrEqual:
		return v >= operands[0]
	case query.OpBetween:
		return v >= operands[0] && v <= operands[1]
	case query.OpIn:
		for _, o := range operands {
			if v == o {
				return true
			}
		}
	}
	return false
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case int32:
		return int64(n), nil
	}
	return 0, fmt.Errorf("unsupported operand %T", v)
}
