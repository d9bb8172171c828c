package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCartItems_Empty(t *testing.T) {
	assert.False(t, ValidateCartItems(nil))
	assert.False(t, ValidateCartItems([]CartLineItem{}))
}

func TestValidateCartItems_Valid(t *testing.T) {
	items := []CartLineItem{
		{ID: "1", ProductID: "p1", Name: "Shirt", Quantity: 2, UnitPrice: dec("10")},
	}
	assert.True(t, ValidateCartItems(items))
}

func TestValidateCartItems_Invalid(t *testing.T) {
	base := CartLineItem{ID: "1", ProductID: "p1", Name: "Shirt", Quantity: 2, UnitPrice: dec("10")}

	zeroQty := base
	zeroQty.Quantity = 0
	assert.False(t, ValidateCartItems([]CartLineItem{zeroQty}))

	noName := base
	noName.Name = ""
	assert.False(t, ValidateCartItems([]CartLineItem{noName}))

	freebie := base
	freebie.UnitPrice = dec("0")
	assert.False(t, ValidateCartItems([]CartLineItem{freebie}))

	// 1件でも不正なら全体がfalse
	assert.False(t, ValidateCartItems([]CartLineItem{base, zeroQty}))
}
