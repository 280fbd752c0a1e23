package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/xiebiao/bookcart/internal/application/cart"
	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/testutil/memstore"
)

const customerID uint = 7

type fixture struct {
	store  *memstore.Store
	create *appcart.CreateCartUseCase
	get    *appcart.GetCartUseCase
	update *appcart.UpdateCartUseCase
	del    *appcart.DeleteCartUseCase
	add    *appcart.AddLineItemUseCase
	remove *appcart.RemoveLineItemUseCase
	books  book.Service
}

func newFixture() *fixture {
	s := memstore.New()
	txm := s.TxManager()
	books := book.NewService(s.Books())
	return &fixture{
		store:  s,
		create: appcart.NewCreateCartUseCase(s.Carts()),
		get:    appcart.NewGetCartUseCase(s.Carts()),
		update: appcart.NewUpdateCartUseCase(s.Carts(), txm),
		del:    appcart.NewDeleteCartUseCase(s.Carts(), txm),
		add:    appcart.NewAddLineItemUseCase(s.Carts(), s.LineItems(), books, txm),
		remove: appcart.NewRemoveLineItemUseCase(s.Carts(), s.LineItems(), txm),
		books:  books,
	}
}

func (f *fixture) newCart(t *testing.T) *cart.Cart {
	t.Helper()
	c, err := f.create.Execute(context.Background(), customerID)
	require.NoError(t, err)
	return c
}

func TestCreateCart(t *testing.T) {
	f := newFixture()
	c := f.newCart(t)

	assert.NotZero(t, c.ID)
	assert.Equal(t, cart.StatusActive, c.Status)
	assert.Equal(t, int64(0), c.TotalPrice)

	got, err := f.get.Execute(context.Background(), c.ID, customerID)
	require.NoError(t, err)
	assert.Empty(t, got.LineItems)
}

func TestAddRemoveLineItem_Scenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b1 := f.store.SeedBook(book.Book{ISBN: "9787115428028", Title: "B1", Price: 2500})

	// 加入2本25.00元的书
	got, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b1, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	li := got.LineItems[0]
	assert.Equal(t, b1, li.BookID)
	assert.Equal(t, 2, li.Quantity)
	assert.Equal(t, int64(2500), li.Price)
	assert.Equal(t, int64(5000), li.TotalPrice)
	assert.Equal(t, int64(5000), got.TotalPrice)

	// 移除1本
	got, err = f.remove.Execute(ctx, appcart.RemoveLineItemRequest{CartID: c.ID, CustomerID: customerID, LineItemID: li.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, 1, got.LineItems[0].Quantity)
	assert.Equal(t, int64(2500), got.LineItems[0].TotalPrice)
	assert.Equal(t, int64(2500), got.TotalPrice)

	// 移除5本(超过持有数量)
	got, err = f.remove.Execute(ctx, appcart.RemoveLineItemRequest{CartID: c.ID, CustomerID: customerID, LineItemID: li.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Empty(t, got.LineItems)
	assert.Equal(t, int64(0), got.TotalPrice)

	// 持久化状态与返回值一致
	stored, err := f.get.Execute(ctx, c.ID, customerID)
	require.NoError(t, err)
	assert.Empty(t, stored.LineItems)
	assert.Equal(t, int64(0), stored.TotalPrice)
}

func TestAddLineItem_SameBookAccumulates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 1000})

	for _, q := range []int{3, 4} {
		_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: q})
		require.NoError(t, err)
	}

	stored, err := f.get.Execute(ctx, c.ID, customerID)
	require.NoError(t, err)
	require.Len(t, stored.LineItems, 1)
	assert.Equal(t, 7, stored.LineItems[0].Quantity)
	assert.Equal(t, int64(7000), stored.TotalPrice)
}

func TestAddLineItem_PriceSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 2500, PublisherID: 1})

	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 1})
	require.NoError(t, err)

	// 图书改价后再次加入,明细仍按原单价累加
	_, err = f.books.UpdateBookPrice(ctx, b, 1, 9900)
	require.NoError(t, err)

	got, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got.LineItems[0].Price)
	assert.Equal(t, int64(5000), got.TotalPrice)
}

func TestAddLineItem_UnknownBookLeavesCartUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)

	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: 404, Quantity: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	stored, err := f.get.Execute(ctx, c.ID, customerID)
	require.NoError(t, err)
	assert.Empty(t, stored.LineItems)
	assert.Equal(t, int64(0), stored.TotalPrice)
}

func TestAddLineItem_LargeQuantitiesAccumulate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})

	for _, q := range []int{600, 600} {
		_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: q})
		require.NoError(t, err)
	}
	other := f.store.SeedBook(book.Book{ISBN: "9787111544937", Price: 100})
	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: other, Quantity: 1000})
	require.NoError(t, err)

	stored, err := f.get.Execute(ctx, c.ID, customerID)
	require.NoError(t, err)
	require.Len(t, stored.LineItems, 2)
	assert.Equal(t, 1200, stored.LineItems[0].Quantity)
	assert.Equal(t, 1000, stored.LineItems[1].Quantity)
	assert.Equal(t, int64(220000), stored.TotalPrice)
}

// 购物车先于图书校验
func TestAddLineItem_MissingCartWinsOverMissingBook(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, bookID := range []uint{0, 404} {
		_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: 999, CustomerID: customerID, BookID: bookID, Quantity: 1})
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
	}

	c := f.newCart(t)
	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: 0, Quantity: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestAddLineItem_DoesNotCheckInventory(t *testing.T) {
	f := newFixture()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})
	f.store.SeedInventory(b, 1)

	got, err := f.add.Execute(context.Background(), appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, got.LineItems[0].Quantity)
	assert.Equal(t, 1, f.store.Stock(b))
}

func TestAddLineItem_FailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})

	boom := errors.New("db down")
	f.store.FailOn(memstore.OpCartUpdate, boom)
	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 2})
	assert.ErrorIs(t, err, boom)
	f.store.FailOn(memstore.OpCartUpdate, nil)

	// 明细已写入但购物车更新失败,整个事务回滚
	stored, err := f.get.Execute(ctx, c.ID, customerID)
	require.NoError(t, err)
	assert.Empty(t, stored.LineItems)
	assert.Equal(t, int64(0), stored.TotalPrice)
}

func TestLineItemValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)

	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: 1, Quantity: 0})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.remove.Execute(ctx, appcart.RemoveLineItemRequest{CartID: c.ID, CustomerID: customerID, LineItemID: 1, Quantity: -1})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.remove.Execute(ctx, appcart.RemoveLineItemRequest{CartID: c.ID, CustomerID: customerID, LineItemID: 99, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrLineItemNotFound)

	_, err = f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: 999, CustomerID: customerID, BookID: 1, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestRemoveLineItem_OtherCartsItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c1 := f.newCart(t)
	c2 := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})

	got, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c1.ID, CustomerID: customerID, BookID: b, Quantity: 1})
	require.NoError(t, err)

	_, err = f.remove.Execute(ctx, appcart.RemoveLineItemRequest{CartID: c2.ID, CustomerID: customerID, LineItemID: got.LineItems[0].ID, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrLineItemNotFound)
}

func TestCart_Forbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})
	const stranger uint = 99

	_, err := f.get.Execute(ctx, c.ID, stranger)
	assert.ErrorIs(t, err, cart.ErrForbidden)

	_, err = f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: stranger, BookID: b, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrForbidden)

	pickup := cart.DeliveryPickup
	_, err = f.update.Execute(ctx, appcart.UpdateCartRequest{CartID: c.ID, CustomerID: stranger, Draft: cart.Draft{DeliveryMethod: &pickup}})
	assert.ErrorIs(t, err, cart.ErrForbidden)

	assert.ErrorIs(t, f.del.Execute(ctx, c.ID, stranger), cart.ErrForbidden)
}

func TestUpdateAndDeleteCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})
	_, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 3})
	require.NoError(t, err)

	express := cart.DeliveryExpress
	addr := uint(5)
	got, err := f.update.Execute(ctx, appcart.UpdateCartRequest{
		CartID:     c.ID,
		CustomerID: customerID,
		Draft:      cart.Draft{DeliveryMethod: &express, ShippingAddressID: &addr},
	})
	require.NoError(t, err)
	assert.Equal(t, cart.DeliveryExpress, got.DeliveryMethod)
	assert.Equal(t, int64(300), got.TotalPrice)

	bad := cart.DeliveryMethod("teleport")
	_, err = f.update.Execute(ctx, appcart.UpdateCartRequest{CartID: c.ID, CustomerID: customerID, Draft: cart.Draft{DeliveryMethod: &bad}})
	assert.ErrorIs(t, err, cart.ErrInvalidDeliveryMethod)

	require.NoError(t, f.del.Execute(ctx, c.ID, customerID))
	_, err = f.get.Execute(ctx, c.ID, customerID)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	assert.ErrorIs(t, f.del.Execute(ctx, c.ID, customerID), cart.ErrCartNotFound)
}

func TestInactiveCartRejectsMutation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.newCart(t)
	b := f.store.SeedBook(book.Book{ISBN: "9787115428028", Price: 100})
	got, err := f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 1})
	require.NoError(t, err)

	// 模拟下单后的状态
	require.NoError(t, got.Deactivate())
	require.NoError(t, f.store.Carts().Update(ctx, got))

	_, err = f.add.Execute(ctx, appcart.AddLineItemRequest{CartID: c.ID, CustomerID: customerID, BookID: b, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrInvalidCartState)

	_, err = f.remove.Execute(ctx, appcart.RemoveLineItemRequest{CartID: c.ID, CustomerID: customerID, LineItemID: got.LineItems[0].ID, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrInvalidCartState)

	assert.ErrorIs(t, f.del.Execute(ctx, c.ID, customerID), cart.ErrInvalidCartState)

	// 仍然可以查看
	stored, err := f.get.Execute(ctx, c.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, cart.StatusInactive, stored.Status)
	assert.Len(t, stored.LineItems, 1)
}
