package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/bookcart/internal/application/book"
	appcart "github.com/xiebiao/bookcart/internal/application/cart"
	appinventory "github.com/xiebiao/bookcart/internal/application/inventory"
	apporder "github.com/xiebiao/bookcart/internal/application/order"
	appuser "github.com/xiebiao/bookcart/internal/application/user"
	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/internal/domain/user"
	"github.com/xiebiao/bookcart/internal/infrastructure/config"
	"github.com/xiebiao/bookcart/internal/interface/http/handler"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/internal/interface/http/router"
	"github.com/xiebiao/bookcart/internal/testutil/memstore"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/jwt"
	"github.com/xiebiao/bookcart/pkg/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type app struct {
	t        *testing.T
	engine   *gin.Engine
	store    *memstore.Store
	sessions *memstore.Sessions
	events   *memstore.EventRecorder
}

// newApp 用内存仓储组装完整的路由,依赖链与cmd/api一致
func newApp(t *testing.T) *app {
	s := memstore.New()
	txm := s.TxManager()
	sessions := memstore.NewSessions()
	events := &memstore.EventRecorder{}
	cache := memstore.NewOrderCache()
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	userSvc := user.NewService(s.Users(), bcrypt.MinCost)
	bookSvc := book.NewService(s.Books())
	invSvc := inventory.NewService(s.Inventories(), txm)

	h := &router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(userSvc),
			appuser.NewLoginUseCase(userSvc, jwtManager, sessions, 24*time.Hour),
			appuser.NewLogoutUseCase(sessions),
			appuser.NewRefreshUseCase(jwtManager, sessions),
		),
		Book: handler.NewBookHandler(
			appbook.NewPublishBookUseCase(bookSvc, s.Inventories(), s.InventoryLogRepo(), txm),
			appbook.NewListBooksUseCase(bookSvc),
			appbook.NewGetBookUseCase(bookSvc, invSvc),
			appbook.NewUpdatePriceUseCase(bookSvc),
		),
		Inventory: handler.NewInventoryHandler(
			appinventory.NewGetInventoryUseCase(invSvc),
			appinventory.NewListLogsUseCase(invSvc, s.InventoryLogRepo()),
		),
		Cart: handler.NewCartHandler(
			appcart.NewCreateCartUseCase(s.Carts()),
			appcart.NewGetCartUseCase(s.Carts()),
			appcart.NewUpdateCartUseCase(s.Carts(), txm),
			appcart.NewDeleteCartUseCase(s.Carts(), txm),
			appcart.NewAddLineItemUseCase(s.Carts(), s.LineItems(), bookSvc, txm),
			appcart.NewRemoveLineItemUseCase(s.Carts(), s.LineItems(), txm),
		),
		Order: handler.NewOrderHandler(
			apporder.NewCreateOrderUseCase(s.Carts(), s.Orders(), invSvc, s.InventoryLogRepo(), txm, events, cache),
			apporder.NewGetOrderUseCase(s.Orders(), cache),
			apporder.NewListOrdersUseCase(s.Orders()),
		),
	}

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	engine := router.New(cfg, logger.NewNop(), h,
		middleware.NewAuthMiddleware(jwtManager, sessions),
		middleware.NewCustomerRateLimiter(1000, 1000),
	)
	return &app{t: t, engine: engine, store: s, sessions: sessions, events: events}
}

func (a *app) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (a *app) decode(env envelope, v interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, v))
}

// signup 注册并登录,返回用户ID和Access Token
func (a *app) signup(email string) (uint, string) {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email": email, "password": "secret1234", "nickname": "读者",
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)

	status, env = a.do(http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": email, "password": "secret1234",
	})
	require.Equal(a.t, http.StatusOK, status, env.Message)
	var login struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	a.decode(env, &login)
	return login.User.ID, login.AccessToken
}

func (a *app) publish(token, isbn string, price int64, stock int) uint {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/books", token, gin.H{
		"isbn": isbn, "title": "Go语言实战", "author": "William Kennedy",
		"publisher": "人民邮电出版社", "price": price, "stock": stock,
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	var b struct {
		ID uint `json:"id"`
	}
	a.decode(env, &b)
	return b.ID
}

type cartBody struct {
	ID         uint   `json:"id"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"total_price"`
	LineItems  []struct {
		ID       uint `json:"id"`
		BookID   uint `json:"book_id"`
		Quantity int  `json:"quantity"`
	} `json:"line_items"`
}

func (a *app) newCart(token string) uint {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/carts", token, nil)
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	var c cartBody
	a.decode(env, &c)
	return c.ID
}

func (a *app) addItem(token string, cartID, bookID uint, qty int) (int, envelope) {
	return a.do(http.MethodPost, fmt.Sprintf("/api/v1/carts/%d/add-line-item", cartID), token,
		gin.H{"book_id": bookID, "quantity": qty})
}

func TestCheckoutFlow(t *testing.T) {
	a := newApp(t)
	sellerID, seller := a.signup("seller@example.com")
	buyerID, buyer := a.signup("buyer@example.com")
	require.NotEqual(t, sellerID, buyerID)

	bookID := a.publish(seller, "9787115428028", 5900, 3)

	cartID := a.newCart(buyer)
	status, env := a.addItem(buyer, cartID, bookID, 2)
	require.Equal(t, http.StatusOK, status, env.Message)

	// 改价不影响已在购物车中的价格快照
	status, env = a.do(http.MethodPatch, fmt.Sprintf("/api/v1/books/%d/price", bookID), seller, gin.H{"price": 9900})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = a.do(http.MethodPatch, fmt.Sprintf("/api/v1/carts/%d", cartID), buyer, gin.H{"delivery_method": "express"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"cart_id": cartID, "payment_method": "credit_card"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var o struct {
		ID         uint   `json:"id"`
		OrderNo    string `json:"order_no"`
		CustomerID uint   `json:"customer_id"`
		Total      int64  `json:"total"`
		TotalYuan  string `json:"total_yuan"`
		Items      []struct {
			BookID   uint  `json:"book_id"`
			Quantity int   `json:"quantity"`
			Price    int64 `json:"price"`
		} `json:"items"`
	}
	a.decode(env, &o)
	assert.Equal(t, buyerID, o.CustomerID)
	assert.Equal(t, int64(11800), o.Total)
	assert.Equal(t, "118.00", o.TotalYuan)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(5900), o.Items[0].Price)
	assert.NotEmpty(t, o.OrderNo)
	assert.Equal(t, 1, a.events.Count())

	// 库存扣减
	status, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/inventories/%d", bookID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var inv struct {
		Stock int `json:"stock"`
	}
	a.decode(env, &inv)
	assert.Equal(t, 1, inv.Stock)

	// 购物车已下单,只读
	status, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/carts/%d", cartID), buyer, nil)
	require.Equal(t, http.StatusOK, status)
	var c cartBody
	a.decode(env, &c)
	assert.Equal(t, "inactive", c.Status)

	status, env = a.addItem(buyer, cartID, bookID, 1)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperrors.ErrCodeInvalidCartState, env.Code)

	status, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/carts/%d", cartID), buyer, nil)
	assert.Equal(t, http.StatusConflict, status)

	// 同一个购物车不能重复下单
	status, _ = a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"cart_id": cartID, "payment_method": "credit_card"})
	assert.Equal(t, http.StatusConflict, status)

	// 订单查询
	status, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", o.ID), buyer, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", o.ID), seller, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = a.do(http.MethodGet, "/api/v1/orders", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
	}
	a.decode(env, &page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)

	status, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/orders?customer_id=%d", sellerID), buyer, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// 库存日志:INIT + RESERVE
	status, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/inventories/%d/logs", bookID), seller, nil)
	require.Equal(t, http.StatusOK, status)
	a.decode(env, &page)
	assert.Equal(t, int64(2), page.Total)
}

func TestCreateOrder_InsufficientStockKeepsCartActive(t *testing.T) {
	a := newApp(t)
	_, seller := a.signup("seller@example.com")
	_, buyer := a.signup("buyer@example.com")
	bookID := a.publish(seller, "9787115428028", 5900, 1)

	cartID := a.newCart(buyer)
	status, _ := a.addItem(buyer, cartID, bookID, 2)
	require.Equal(t, http.StatusOK, status)

	status, env := a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"cart_id": cartID, "payment_method": "paypal"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, env.Code)
	assert.Equal(t, 1, a.store.Stock(bookID))
	assert.Equal(t, 0, a.store.OrderCount())

	// 减少数量后可以继续下单
	status, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/carts/%d", cartID), buyer, nil)
	require.Equal(t, http.StatusOK, status)
	var c cartBody
	a.decode(env, &c)
	assert.Equal(t, "active", c.Status)
	require.Len(t, c.LineItems, 1)

	status, _ = a.do(http.MethodPost, fmt.Sprintf("/api/v1/carts/%d/remove-line-item", cartID), buyer,
		gin.H{"line_item_id": c.LineItems[0].ID, "quantity": 1})
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"cart_id": cartID, "payment_method": "paypal"})
	assert.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, 0, a.store.Stock(bookID))
}

func TestCreateOrder_Validation(t *testing.T) {
	a := newApp(t)
	_, buyer := a.signup("buyer@example.com")
	cartID := a.newCart(buyer)

	// 空购物车
	status, env := a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"cart_id": cartID, "payment_method": "credit_card"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, apperrors.ErrCodeEmptyCart, env.Code)

	// 缺少参数
	status, _ = a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"payment_method": "credit_card"})
	assert.Equal(t, http.StatusBadRequest, status)

	// 不存在的购物车
	status, _ = a.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{"cart_id": 999, "payment_method": "credit_card"})
	assert.Equal(t, http.StatusNotFound, status)

	// 未登录
	status, _ = a.do(http.MethodPost, "/api/v1/orders", "", gin.H{"cart_id": cartID, "payment_method": "credit_card"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCart_Ownership(t *testing.T) {
	a := newApp(t)
	_, alice := a.signup("alice@example.com")
	_, bob := a.signup("bob@example.com")
	cartID := a.newCart(alice)

	status, _ := a.do(http.MethodGet, fmt.Sprintf("/api/v1/carts/%d", cartID), bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/carts/%d", cartID), bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodGet, "/api/v1/carts/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/carts/%d", cartID), alice, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/carts/%d", cartID), alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBooks_Public(t *testing.T) {
	a := newApp(t)
	_, seller := a.signup("seller@example.com")
	a.publish(seller, "9787115428028", 5900, 3)
	a.publish(seller, "9787111544937", 12900, 0)

	status, env := a.do(http.MethodGet, "/api/v1/books?max_price=10000", "", nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		List  []map[string]interface{} `json:"list"`
		Total int64                    `json:"total"`
	}
	a.decode(env, &page)
	assert.Equal(t, int64(1), page.Total)

	status, _ = a.do(http.MethodGet, "/api/v1/books?min_price=20000&max_price=100", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodGet, "/api/v1/books/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// 重复ISBN
	status, env = a.do(http.MethodPost, "/api/v1/books", seller, gin.H{
		"isbn": "9787115428028", "title": "t", "author": "a", "publisher": "p", "price": 100, "stock": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, apperrors.ErrCodeISBNDuplicate, env.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	a := newApp(t)
	_, token := a.signup("buyer@example.com")

	status, _ := a.do(http.MethodPost, "/api/v1/users/logout", token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, env := a.do(http.MethodPost, "/api/v1/carts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, env.Code)
}

func TestRefresh_RequiresLiveSession(t *testing.T) {
	a := newApp(t)
	_, _ = a.signup("buyer@example.com")

	status, env := a.do(http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": "buyer@example.com", "password": "secret1234",
	})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	a.decode(env, &login)

	status, env = a.do(http.MethodPost, "/api/v1/users/refresh", "", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, status, env.Message)
	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	a.decode(env, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Access Token不能当Refresh Token用
	status, env = a.do(http.MethodPost, "/api/v1/users/refresh", "", gin.H{"refresh_token": login.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)

	status, _ = a.do(http.MethodPost, "/api/v1/users/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, env = a.do(http.MethodPost, "/api/v1/users/refresh", "", gin.H{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, env.Code)
}

func TestPing(t *testing.T) {
	a := newApp(t)
	status, env := a.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, env.Code)
}
