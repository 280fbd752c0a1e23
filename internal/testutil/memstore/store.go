// Package memstore 提供内存版的仓储和事务管理器，供应用层和接口层测试使用
//
// 事务语义与MySQL实现保持一致：
//  1. Transaction开始时给整个存储拍快照，fn返回error（或panic）时恢复快照
//  2. 同一时刻只有一个事务在执行，相当于所有行都加了FOR UPDATE
//  3. 已在事务中的ctx再次调用Transaction直接复用外层事务
//  4. 事务外的写操作按自动提交处理，会等待正在执行的事务结束，
//     因此回滚快照不会覆盖掉事务外的写入
//
// 事务外的读操作不等待，可能读到未提交的数据
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/internal/domain/user"
)

type tables struct {
	seq           map[string]uint
	carts         map[uint]cart.Cart
	lineItems     map[uint]cart.LineItem
	inventories   map[uint]inventory.Inventory
	inventoryLogs map[uint]inventory.Log
	orders        map[uint]order.Order
	books         map[uint]book.Book
	users         map[uint]user.User
}

func newTables() *tables {
	return &tables{
		seq:           map[string]uint{},
		carts:         map[uint]cart.Cart{},
		lineItems:     map[uint]cart.LineItem{},
		inventories:   map[uint]inventory.Inventory{},
		inventoryLogs: map[uint]inventory.Log{},
		orders:        map[uint]order.Order{},
		books:         map[uint]book.Book{},
		users:         map[uint]user.User{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.seq {
		c.seq[k] = v
	}
	for k, v := range t.carts {
		c.carts[k] = v
	}
	for k, v := range t.lineItems {
		c.lineItems[k] = v
	}
	for k, v := range t.inventories {
		c.inventories[k] = v
	}
	for k, v := range t.inventoryLogs {
		c.inventoryLogs[k] = v
	}
	for k, v := range t.orders {
		v.Items = append([]order.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range t.books {
		c.books[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	return c
}

func (t *tables) next(name string) uint {
	t.seq[name]++
	return t.seq[name]
}

// Store 内存存储
type Store struct {
	txMu sync.Mutex // 串行化事务
	mu   sync.RWMutex
	data *tables

	failMu sync.Mutex
	fail   map[string]error
}

// New 创建空存储
func New() *Store {
	return &Store{data: newTables(), fail: map[string]error{}}
}

// 故障注入点
const (
	OpCartUpdate        = "cart.update"
	OpLineItemCreate    = "line_item.create"
	OpLineItemUpdate    = "line_item.update"
	OpOrderCreate       = "order.create"
	OpInventoryLogWrite = "inventory_log.batch_create"
	OpInventoryCreate   = "inventory.create"
)

// FailOn 让指定操作返回err，传nil取消
func (s *Store) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.fail[op]
}

type txKey struct{}

// InTx ctx是否处于事务中
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// TxManager 实现transaction.Manager
type TxManager struct {
	s *Store
}

// TxManager 返回事务管理器
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// Transaction 串行执行fn，出错时整体回滚
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.RLock()
	snapshot := m.s.data.clone()
	m.s.mu.RUnlock()

	committed := false
	defer func() {
		if !committed {
			m.s.mu.Lock()
			m.s.data = snapshot
			m.s.mu.Unlock()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}

// write 获取写锁；事务外的写先拿txMu，与事务互斥
func (s *Store) write(ctx context.Context) (unlock func()) {
	outside := !InTx(ctx)
	if outside {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if outside {
			s.txMu.Unlock()
		}
	}
}

// ===== 测试辅助 =====

// SeedBook 直接写入图书，返回ID
func (s *Store) SeedBook(b book.Book) uint {
	defer s.write(context.Background())()
	b.ID = s.data.next("books")
	s.data.books[b.ID] = b
	return b.ID
}

// SeedInventory 直接写入库存
func (s *Store) SeedInventory(bookID uint, stock int) {
	defer s.write(context.Background())()
	s.data.inventories[bookID] = inventory.Inventory{BookID: bookID, Stock: stock}
}

// Stock 读取当前库存，记录不存在返回-1
func (s *Store) Stock(bookID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.data.inventories[bookID]
	if !ok {
		return -1
	}
	return inv.Stock
}

// OrderCount 订单总数
func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.orders)
}

// InventoryLogs 某本书的全部日志
func (s *Store) InventoryLogs(bookID uint) []inventory.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []inventory.Log
	for _, l := range s.data.inventoryLogs {
		if l.BookID == bookID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
