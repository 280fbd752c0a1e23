package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookcart/internal/domain/cart"
)

func TestFormatPriceYuan(t *testing.T) {
	cases := map[int64]string{
		0:                   "0.00",
		5:                   "0.05",
		5900:                "59.00",
		12345:               "123.45",
		-250:                "-2.50",
		9007199254740993001: "90071992547409930.01",
	}
	for fen, want := range cases {
		assert.Equal(t, want, FormatPriceYuan(fen))
	}
}

func TestUpdateCartRequest_ToDraft(t *testing.T) {
	method := "express"
	id := uint(3)
	d := (&UpdateCartRequest{ShippingAddressID: &id, DeliveryMethod: &method}).ToDraft()

	assert.Nil(t, d.BillingAddressID)
	assert.Equal(t, uint(3), *d.ShippingAddressID)
	assert.Equal(t, cart.DeliveryExpress, *d.DeliveryMethod)

	assert.Nil(t, (&UpdateCartRequest{}).ToDraft().DeliveryMethod)
}

func TestToCartResponse(t *testing.T) {
	c := cart.NewCart(5)
	_, err := c.AddItem(1, 2, 1250)
	assert.NoError(t, err)

	resp := ToCartResponse(c)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, int64(2500), resp.TotalPrice)
	assert.Equal(t, "25.00", resp.TotalPriceYuan)
	assert.Len(t, resp.LineItems, 1)
	assert.Equal(t, "12.50", resp.LineItems[0].PriceYuan)
}
