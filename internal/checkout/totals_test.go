package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateOrderTotals_EmptyCart(t *testing.T) {
	sum, err := CalculateOrderTotals(nil, RoundHalfUp)
	require.NoError(t, err)

	assert.Empty(t, sum.Items)
	assert.True(t, sum.Subtotal.IsZero(), "subtotal should be 0")
	assert.True(t, sum.Tax.IsZero(), "tax should be 0")
	assert.True(t, sum.Shipping.Equal(dec("20")))
	assert.True(t, sum.Total.Equal(dec("20")), "total should equal shipping, got %s", sum.Total)
}

func TestCalculateOrderTotals_SingleItem(t *testing.T) {
	items := []CartLineItem{
		{ID: "1", ProductID: "p1", Name: "Shirt", Quantity: 2, UnitPrice: dec("10")},
	}

	sum, err := CalculateOrderTotals(items, RoundHalfUp)
	require.NoError(t, err)

	require.Len(t, sum.Items, 1)
	assert.True(t, sum.Items[0].TotalPrice.Equal(dec("20")))
	assert.True(t, sum.Subtotal.Equal(dec("20")))
	assert.True(t, sum.Shipping.Equal(dec("20")))
	// 20 * 0.08 = 1.60
	assert.True(t, sum.Tax.Equal(dec("1.60")), "tax = %s", sum.Tax)
	assert.True(t, sum.Total.Equal(dec("41.60")), "total = %s", sum.Total)
}

func TestCalculateOrderTotals_SubtotalIsSumOfLineTotals(t *testing.T) {
	items := []CartLineItem{
		{ID: "1", ProductID: "p1", Name: "Shirt", Size: "M", Quantity: 3, UnitPrice: dec("19.99")},
		{ID: "2", ProductID: "p2", Name: "Cap", Quantity: 1, UnitPrice: dec("7.50")},
		{ID: "3", ProductID: "p3", Name: "Socks", Quantity: 4, UnitPrice: dec("2.25")},
	}

	sum, err := CalculateOrderTotals(items, RoundHalfUp)
	require.NoError(t, err)

	want := dec("19.99").Mul(dec("3")).Add(dec("7.50")).Add(dec("2.25").Mul(dec("4")))
	assert.True(t, sum.Subtotal.Equal(want), "subtotal = %s want %s", sum.Subtotal, want)

	// total = subtotal + shipping + tax は常に成り立つ
	assert.True(t, sum.Total.Equal(sum.Subtotal.Add(sum.Shipping).Add(sum.Tax)))
}

func TestCalculateOrderTotals_TaxRounding(t *testing.T) {
	// 小計 10.31 → 税 0.8248 → half-upで 0.82
	items := []CartLineItem{
		{ID: "1", ProductID: "p1", Name: "Pen", Quantity: 1, UnitPrice: dec("10.31")},
	}

	sum, err := CalculateOrderTotals(items, RoundHalfUp)
	require.NoError(t, err)
	assert.True(t, sum.Tax.Equal(dec("0.82")), "tax = %s", sum.Tax)

	// 小計 10.3125 → 税 0.825 → half-upは 0.83、banker'sは 0.82
	items[0].UnitPrice = dec("10.3125")

	sum, err = CalculateOrderTotals(items, RoundHalfUp)
	require.NoError(t, err)
	assert.True(t, sum.Tax.Equal(dec("0.83")), "half-up tax = %s", sum.Tax)

	sum, err = CalculateOrderTotals(items, RoundBankers)
	require.NoError(t, err)
	assert.True(t, sum.Tax.Equal(dec("0.82")), "bankers tax = %s", sum.Tax)
}

func TestCalculateOrderTotals_NoLineLevelRounding(t *testing.T) {
	// 行合計は丸めずに持ち回る（0.105 × 3 = 0.315 のまま小計に入る）
	items := []CartLineItem{
		{ID: "1", ProductID: "p1", Name: "Sticker", Quantity: 3, UnitPrice: dec("0.105")},
	}

	sum, err := CalculateOrderTotals(items, RoundHalfUp)
	require.NoError(t, err)
	assert.True(t, sum.Items[0].TotalPrice.Equal(dec("0.315")))
	assert.True(t, sum.Subtotal.Equal(dec("0.315")))
}

func TestCalculateOrderTotals_MalformedItem(t *testing.T) {
	cases := []struct {
		name string
		item CartLineItem
	}{
		{"missing id", CartLineItem{ProductID: "p1", Name: "Shirt", Quantity: 1, UnitPrice: dec("10")}},
		{"missing product id", CartLineItem{ID: "1", Name: "Shirt", Quantity: 1, UnitPrice: dec("10")}},
		{"missing name", CartLineItem{ID: "1", ProductID: "p1", Quantity: 1, UnitPrice: dec("10")}},
		{"zero quantity", CartLineItem{ID: "1", ProductID: "p1", Name: "Shirt", Quantity: 0, UnitPrice: dec("10")}},
		{"negative price", CartLineItem{ID: "1", ProductID: "p1", Name: "Shirt", Quantity: 1, UnitPrice: dec("-1")}},
		{"zero price", CartLineItem{ID: "1", ProductID: "p1", Name: "Shirt", Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			valid := CartLineItem{ID: "ok", ProductID: "ok", Name: "ok", Quantity: 1, UnitPrice: dec("1")}

			_, err := CalculateOrderTotals([]CartLineItem{valid, tc.item}, RoundHalfUp)
			require.Error(t, err)

			var me *MalformedLineItemError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, 1, me.Index)
		})
	}
}
