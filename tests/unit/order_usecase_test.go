package unit

import (
	"context"
	"testing"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/event"
	"storefront/internal/usecase"
	appvalidator "storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderFixture struct {
	orderRepo     *orderRepoMock
	orderItemRepo *orderItemRepoMock
	cartRepo      *cartRepoMock
	cartItemRepo  *cartItemRepoMock
	productRepo   *productRepoMock
	addressRepo   *addressRepoMock
	inventoryRepo *inventoryRepoMock
	publisher     *publisherMock
	uc            *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:     new(orderRepoMock),
		orderItemRepo: new(orderItemRepoMock),
		cartRepo:      new(cartRepoMock),
		cartItemRepo:  new(cartItemRepoMock),
		productRepo:   new(productRepoMock),
		addressRepo:   new(addressRepoMock),
		inventoryRepo: new(inventoryRepoMock),
		publisher:     new(publisherMock),
	}

	tx := txManagerFake{repos: txReposFake{
		orders:     f.orderRepo,
		orderItems: f.orderItemRepo,
		carts:      f.cartRepo,
		cartItems:  f.cartItemRepo,
		inventory:  f.inventoryRepo,
		products:   f.productRepo,
	}}

	f.uc = usecase.NewOrderUsecase(
		f.orderRepo, f.orderItemRepo, f.cartRepo, f.cartItemRepo,
		f.productRepo, f.addressRepo, tx, f.publisher,
		appvalidator.NewCheckoutValidator(), checkout.RoundHalfUp,
	)
	return f
}

func validAddress() model.Address {
	return model.Address{
		ID:         5,
		UserID:     1,
		FirstName:  "Taro",
		LastName:   "Yamada",
		PostalCode: "1000001",
		Prefecture: "Tokyo",
		City:       "Chiyoda",
		Line1:      "1-1-1",
	}
}

func codPayment() appvalidator.PaymentInput {
	return appvalidator.PaymentInput{Method: "COD"}
}

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.orderRepo.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.addressRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(true, nil)
	f.addressRepo.On("FindByID", mock.Anything, int64(5)).Return(validAddress(), nil)
	f.cartRepo.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 11, CartID: 7, ProductID: 101, Size: "M", Quantity: 2, UnitPriceSnapshot: dec("10.50")},
	}, nil)
	f.productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, Name: "Tee", IsActive: true, Stock: 10}, nil)

	f.inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(2)).Return(true, nil)

	// 21.00 + 20 + round(21.00*0.08) = 42.68
	f.orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.Status == model.OrderStatusPending &&
			o.Subtotal.Equal(dec("21.00")) &&
			o.ShippingFee.Equal(dec("20")) &&
			o.Tax.Equal(dec("1.68")) &&
			o.TotalPrice.Equal(dec("42.68"))
	})).Return(int64(99), nil)

	f.orderItemRepo.On("CreateBulk", mock.Anything, int64(99), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 101 &&
			items[0].ProductNameSnapshot == "Tee" &&
			items[0].SizeSnapshot == "M" &&
			items[0].Quantity == 2 &&
			items[0].UnitPriceSnapshot.Equal(dec("10.50"))
	})).Return(nil)

	f.cartRepo.On("UpdateStatus", mock.Anything, int64(7), model.CartStatusCheckedOut).Return(nil)

	f.publisher.On("PublishOrderPlaced", mock.MatchedBy(func(ev event.OrderPlaced) bool {
		return ev.OrderID == 99 && ev.UserID == 1 && ev.ItemCount == 1 && ev.Total == "42.68"
	})).Return(nil)

	placed := model.Order{
		ID: 99, UserID: 1, Status: model.OrderStatusPending,
		Subtotal: dec("21.00"), ShippingFee: dec("20"), Tax: dec("1.68"), TotalPrice: dec("42.68"),
	}
	f.orderRepo.On("FindByID", mock.Anything, int64(99)).Return(placed, nil)
	f.orderItemRepo.On("ListByOrderID", mock.Anything, int64(99)).Return([]model.OrderItem{
		{OrderID: 99, ProductID: 101, ProductNameSnapshot: "Tee", SizeSnapshot: "M", Quantity: 2, UnitPriceSnapshot: dec("10.50")},
	}, nil)

	out, err := f.uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		Payment:        codPayment(),
		IdempotencyKey: "key-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(99), out.ID)
	assert.True(t, out.Total.Equal(dec("42.68")))
	assert.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].LineTotal.Equal(dec("21.00")))

	f.inventoryRepo.AssertExpectations(t)
	f.orderRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_IdempotentReplay(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	existing := model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPending, TotalPrice: dec("42.68")}
	f.orderRepo.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-dup").Return(existing, true, nil)
	f.orderItemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	out, err := f.uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		Payment:        codPayment(),
		IdempotencyKey: "key-dup",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)

	//既存注文を返すだけで副作用は起きない
	f.inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything)
}

func TestOrderUsecase_PlaceOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.orderRepo.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-2").Return(model.Order{}, false, nil)
	f.addressRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(true, nil)
	f.addressRepo.On("FindByID", mock.Anything, int64(5)).Return(validAddress(), nil)
	f.cartRepo.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7}, nil)
	f.cartItemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 11, CartID: 7, ProductID: 101, Quantity: 5, UnitPriceSnapshot: dec("10.50")},
	}, nil)
	f.productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, Name: "Tee", IsActive: true}, nil)

	f.inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(5)).Return(false, nil)

	_, err := f.uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		Payment:        codPayment(),
		IdempotencyKey: "key-2",
	})

	assertErrContains(t, err, "insufficient stock")
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything)
}

func TestOrderUsecase_PlaceOrder_BlockedByPaymentValidation(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.orderRepo.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-3").Return(model.Order{}, false, nil)
	f.addressRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(true, nil)
	f.addressRepo.On("FindByID", mock.Anything, int64(5)).Return(validAddress(), nil)
	f.cartRepo.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7}, nil)
	f.cartItemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 11, CartID: 7, ProductID: 101, Quantity: 1, UnitPriceSnapshot: dec("10.50")},
	}, nil)
	f.productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, Name: "Tee", IsActive: true}, nil)

	//支払い方法が空 → 確定できない
	_, err := f.uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		Payment:        appvalidator.PaymentInput{},
		IdempotencyKey: "key-3",
	})

	assertErrContains(t, err, "payment")
	f.inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_MissingIdempotencyKey(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{
		AddressID: 5,
		Payment:   codPayment(),
	})

	assertErrContains(t, err, "idempotency key")
}

func TestOrderUsecase_GetMyOrderDetail_OtherUsersOrderIsHidden(t *testing.T) {
	f := newOrderFixture()

	f.orderRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 2}, nil)

	_, err := f.uc.GetMyOrderDetail(context.Background(), 1, 42)
	assertErrContains(t, err, "not found")
}
