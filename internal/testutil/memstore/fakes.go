package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookcart/internal/domain/order"
)

// OrderCache 内存版订单缓存
type OrderCache struct {
	mu    sync.Mutex
	items map[uint]order.Order
	Hits  int
	Err   error // 非nil时所有操作返回该错误，模拟Redis故障
}

// NewOrderCache 创建空缓存
func NewOrderCache() *OrderCache {
	return &OrderCache{items: map[uint]order.Order{}}
}

func (c *OrderCache) Get(ctx context.Context, id uint) (*order.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	o, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	c.Hits++
	return &o, nil
}

func (c *OrderCache) Set(ctx context.Context, o *order.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.items[o.ID] = *o
	return nil
}

func (c *OrderCache) Delete(ctx context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.items, id)
	return nil
}

// Cached 是否已缓存
func (c *OrderCache) Cached(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	return ok
}

// EventRecorder 记录发布的订单事件
type EventRecorder struct {
	mu     sync.Mutex
	Orders []order.Order
	Err    error
}

func (r *EventRecorder) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Orders = append(r.Orders, *o)
	return nil
}

// Count 已发布事件数
func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Orders)
}

// Sessions 内存版会话与黑名单
type Sessions struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]interface{}
	blacklist map[string]bool
}

// NewSessions 创建空会话存储
func NewSessions() *Sessions {
	return &Sessions{sessions: map[uint]map[string]interface{}{}, blacklist: map[string]bool{}}
}

func (s *Sessions) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = data
	return nil
}

func (s *Sessions) DeleteSession(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *Sessions) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = true
	return nil
}

func (s *Sessions) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blacklist[token], nil
}

func (s *Sessions) SessionExists(ctx context.Context, userID uint) (bool, error) {
	return s.HasSession(userID), nil
}

// HasSession 是否存在会话
func (s *Sessions) HasSession(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}
