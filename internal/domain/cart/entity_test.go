package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// persist 模拟仓储为新明细分配ID
func persist(c *Cart, change Change, nextID *uint) {
	if change.Kind == ChangeCreated {
		*nextID++
		change.Item.ID = *nextID
	}
}

func TestCart_AddRemoveScenario(t *testing.T) {
	c := NewCart(7)
	c.ID = 1
	var nextID uint

	// 加入2本25.00元的书
	change, err := c.AddItem(100, 2, 2500)
	require.NoError(t, err)
	assert.Equal(t, ChangeCreated, change.Kind)
	persist(c, change, &nextID)

	require.Len(t, c.LineItems, 1)
	li := c.LineItems[0]
	assert.Equal(t, uint(100), li.BookID)
	assert.Equal(t, 2, li.Quantity)
	assert.Equal(t, int64(2500), li.Price)
	assert.Equal(t, int64(5000), li.TotalPrice)
	assert.Equal(t, int64(5000), c.TotalPrice)

	// 移除1本
	change, err = c.RemoveItem(li.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, ChangeUpdated, change.Kind)
	assert.Equal(t, 1, li.Quantity)
	assert.Equal(t, int64(2500), li.TotalPrice)
	assert.Equal(t, int64(2500), c.TotalPrice)

	// 移除超过持有数量，整条删除
	change, err = c.RemoveItem(li.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, ChangeDeleted, change.Kind)
	assert.Empty(t, c.LineItems)
	assert.Equal(t, int64(0), c.TotalPrice)
}

func TestCart_AddSameBookAccumulates(t *testing.T) {
	c := NewCart(1)
	var nextID uint

	change, err := c.AddItem(9, 3, 1000)
	require.NoError(t, err)
	persist(c, change, &nextID)

	// 第二次加入时传入新价格，明细保持原单价
	change, err = c.AddItem(9, 4, 1500)
	require.NoError(t, err)
	assert.Equal(t, ChangeUpdated, change.Kind)

	require.Len(t, c.LineItems, 1)
	assert.Equal(t, 7, c.LineItems[0].Quantity)
	assert.Equal(t, int64(1000), c.LineItems[0].Price)
	assert.Equal(t, int64(7000), c.TotalPrice)
}

func TestCart_InvalidQuantity(t *testing.T) {
	c := NewCart(1)

	_, err := c.AddItem(1, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = c.AddItem(1, -2, 100)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.Empty(t, c.LineItems)
	assert.Equal(t, int64(0), c.TotalPrice)
}

func TestCart_LargeQuantitiesAccumulate(t *testing.T) {
	c := NewCart(1)
	_, err := c.AddItem(1, 600, 100)
	require.NoError(t, err)
	_, err = c.AddItem(1, 600, 100)
	require.NoError(t, err)
	_, err = c.AddItem(2, 1000, 50)
	require.NoError(t, err)

	require.Len(t, c.LineItems, 2)
	assert.Equal(t, 1200, c.LineItems[0].Quantity)
	assert.Equal(t, int64(120000), c.LineItems[0].TotalPrice)
	assert.Equal(t, int64(170000), c.TotalPrice)
}

func TestCart_OverflowLeavesItemUntouched(t *testing.T) {
	c := NewCart(1)
	_, err := c.AddItem(1, 10, math.MaxInt64/20)
	require.NoError(t, err)
	before := c.TotalPrice

	_, err = c.AddItem(1, 20, math.MaxInt64/20)
	assert.ErrorIs(t, err, ErrAmountOverflow)
	assert.Equal(t, 10, c.LineItems[0].Quantity)
	assert.Equal(t, before, c.TotalPrice)

	_, err = c.AddItem(2, math.MaxInt, 2)
	assert.ErrorIs(t, err, ErrAmountOverflow)
	assert.Len(t, c.LineItems, 1)
}

func TestCart_RemoveUnknownLineItem(t *testing.T) {
	c := NewCart(1)
	_, err := c.RemoveItem(42, 1)
	assert.ErrorIs(t, err, ErrLineItemNotFound)

	_, err = c.RemoveItem(42, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_InactiveRejectsMutation(t *testing.T) {
	c := NewCart(1)
	c.ID = 3
	change, err := c.AddItem(5, 1, 900)
	require.NoError(t, err)
	change.Item.ID = 11

	require.NoError(t, c.Deactivate())
	assert.Equal(t, StatusInactive, c.Status)
	assert.Equal(t, "inactive", c.Status.String())

	_, err = c.AddItem(5, 1, 900)
	assert.ErrorIs(t, err, ErrInvalidCartState)

	_, err = c.RemoveItem(11, 1)
	assert.ErrorIs(t, err, ErrInvalidCartState)

	express := DeliveryExpress
	assert.ErrorIs(t, c.ApplyDraft(Draft{DeliveryMethod: &express}), ErrInvalidCartState)

	// 只能停用一次
	assert.ErrorIs(t, c.Deactivate(), ErrInvalidCartState)

	assert.Len(t, c.LineItems, 1)
	assert.Equal(t, int64(900), c.TotalPrice)
}

func TestCart_ApplyDraft(t *testing.T) {
	c := NewCart(1)
	billing, shipping := uint(10), uint(20)
	pickup := DeliveryPickup

	require.NoError(t, c.ApplyDraft(Draft{
		BillingAddressID:  &billing,
		ShippingAddressID: &shipping,
		DeliveryMethod:    &pickup,
	}))
	assert.Equal(t, DeliveryPickup, c.DeliveryMethod)
	assert.Equal(t, uint(10), *c.BillingAddressID)
	assert.Equal(t, uint(20), *c.ShippingAddressID)

	// nil字段保持不变
	require.NoError(t, c.ApplyDraft(Draft{}))
	assert.Equal(t, DeliveryPickup, c.DeliveryMethod)

	drone := DeliveryMethod("drone")
	assert.ErrorIs(t, c.ApplyDraft(Draft{DeliveryMethod: &drone}), ErrInvalidDeliveryMethod)
	assert.Equal(t, DeliveryPickup, c.DeliveryMethod)
}

func TestCart_Ownership(t *testing.T) {
	c := NewCart(8)
	assert.True(t, c.IsOwnedBy(8))
	assert.False(t, c.IsOwnedBy(9))
	assert.True(t, c.IsEmpty())
	assert.Equal(t, StatusActive, c.Status)
}

// TestCart_TotalsInvariant 任意加减序列之后，总价始终等于明细小计之和
func TestCart_TotalsInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewCart(1)
		var nextID uint
		prices := map[uint]int64{}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(c.LineItems) > 0 && rapid.Bool().Draw(t, "remove") {
				idx := rapid.IntRange(0, len(c.LineItems)-1).Draw(t, "idx")
				li := c.LineItems[idx]
				before := li.Quantity
				qty := rapid.IntRange(1, 20).Draw(t, "removeQty")

				change, err := c.RemoveItem(li.ID, qty)
				if err != nil {
					t.Fatalf("remove: %v", err)
				}
				if qty >= before && change.Kind != ChangeDeleted {
					t.Fatalf("expected deletion when removing %d of %d", qty, before)
				}
				if change.Kind == ChangeDeleted {
					delete(prices, li.BookID)
				}
			} else {
				bookID := uint(rapid.IntRange(1, 5).Draw(t, "book"))
				price := int64(rapid.IntRange(0, 100000).Draw(t, "price"))
				qty := rapid.IntRange(1, 10).Draw(t, "addQty")

				change, err := c.AddItem(bookID, qty, price)
				if err != nil {
					t.Fatalf("add: %v", err)
				}
				if _, ok := prices[bookID]; !ok {
					prices[bookID] = price
				}
				persist(c, change, &nextID)
			}

			var sum int64
			seen := map[uint]bool{}
			for _, li := range c.LineItems {
				if li.Quantity <= 0 {
					t.Fatalf("non-positive quantity %d", li.Quantity)
				}
				if li.TotalPrice != int64(li.Quantity)*li.Price {
					t.Fatalf("line total %d != %d * %d", li.TotalPrice, li.Quantity, li.Price)
				}
				if li.Price != prices[li.BookID] {
					t.Fatalf("price snapshot changed for book %d", li.BookID)
				}
				if seen[li.BookID] {
					t.Fatalf("duplicate line item for book %d", li.BookID)
				}
				seen[li.BookID] = true
				sum += li.TotalPrice
			}
			if c.TotalPrice != sum {
				t.Fatalf("cart total %d != sum %d", c.TotalPrice, sum)
			}
		}
	})
}
