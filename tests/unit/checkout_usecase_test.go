package unit

import (
	"context"
	"testing"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/usecase"
	appvalidator "storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type checkoutFixture struct {
	cartRepo     *cartRepoMock
	cartItemRepo *cartItemRepoMock
	productRepo  *productRepoMock
	addressRepo  *addressRepoMock
	uc           *usecase.CheckoutUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		cartRepo:     new(cartRepoMock),
		cartItemRepo: new(cartItemRepoMock),
		productRepo:  new(productRepoMock),
		addressRepo:  new(addressRepoMock),
	}
	f.uc = usecase.NewCheckoutUsecase(
		f.cartRepo, f.cartItemRepo, f.productRepo, f.addressRepo,
		appvalidator.NewCheckoutValidator(), checkout.RoundHalfUp,
	)
	return f
}

func (f *checkoutFixture) givenCartWithOneItem() {
	f.cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	f.cartItemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 11, CartID: 7, ProductID: 101, Size: "M", Quantity: 2, UnitPriceSnapshot: dec("10.50")},
	}, nil)
	f.productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, Name: "Tee", IsActive: true}, nil)
}

func TestCheckoutUsecase_GetQuote_ValidEverything(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.givenCartWithOneItem()

	f.addressRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(true, nil)
	f.addressRepo.On("FindByID", mock.Anything, int64(5)).Return(validAddress(), nil)

	out, err := f.uc.GetQuote(ctx, 1, usecase.QuoteInput{
		AddressID:      5,
		Payment:        codPayment(),
		CurrentStep:    "review",
		CompletedSteps: []string{"shipping", "payment"},
	})

	assert.NoError(t, err)
	assert.True(t, out.CanProceed)
	assert.Empty(t, out.Summary.Errors)
	assert.Equal(t, "21.00", out.Subtotal)
	assert.Equal(t, "20.00", out.Shipping)
	assert.Equal(t, "1.68", out.Tax)
	assert.Equal(t, "42.68", out.Total)
	assert.Equal(t, checkout.StepStatusCompleted, out.Steps[checkout.StepShipping])
	assert.Equal(t, checkout.StepStatusCompleted, out.Steps[checkout.StepPayment])
	assert.Equal(t, checkout.StepStatusCurrent, out.Steps[checkout.StepReview])
}

func TestCheckoutUsecase_GetQuote_MissingAddressStillReturnsTotals(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.givenCartWithOneItem()

	out, err := f.uc.GetQuote(ctx, 1, usecase.QuoteInput{
		AddressID:   0,
		Payment:     codPayment(),
		CurrentStep: "shipping",
	})

	assert.NoError(t, err)
	assert.False(t, out.CanProceed)
	assert.Contains(t, out.Summary.Errors, "address: address is required")
	//住所未選択でも金額は見せる
	assert.Equal(t, "42.68", out.Total)
}

func TestCheckoutUsecase_GetQuote_OtherUsersAddress(t *testing.T) {
	f := newCheckoutFixture()
	f.givenCartWithOneItem()

	f.addressRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(false, nil)

	_, err := f.uc.GetQuote(context.Background(), 1, usecase.QuoteInput{AddressID: 5, Payment: codPayment()})
	assertErrContains(t, err, "address not found")
}

func TestCheckoutUsecase_GetQuote_EmptyCartCannotProceed(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7}, nil)
	f.cartItemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)
	f.addressRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(true, nil)
	f.addressRepo.On("FindByID", mock.Anything, int64(5)).Return(validAddress(), nil)

	out, err := f.uc.GetQuote(ctx, 1, usecase.QuoteInput{AddressID: 5, Payment: codPayment()})

	assert.NoError(t, err)
	assert.False(t, out.CanProceed)
	//空カートは送料のみ
	assert.Equal(t, "20.00", out.Total)
}
