package usecase

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	rounding     checkout.RoundingMode
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	rounding checkout.RoundingMode,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		rounding:     rounding,
	}
}

type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	CartID   int64              `json:"cart_id"`
	Items    []CartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Shipping decimal.Decimal    `json:"shipping"`
	Tax      decimal.Decimal    `json:"tax"`
	Total    decimal.Decimal    `json:"total"`
}

// DB上の明細を金額計算の入力に変換する。商品名は現在のマスタから引く
func buildLineItems(ctx context.Context, productRepo repo.ProductRepository, items []model.CartItem) ([]checkout.CartLineItem, error) {
	lines := make([]checkout.CartLineItem, 0, len(items))
	for _, it := range items {
		p, err := productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}

		lines = append(lines, checkout.CartLineItem{
			ID:        strconv.FormatInt(it.ID, 10),
			ProductID: strconv.FormatInt(it.ProductID, 10),
			Name:      p.Name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceSnapshot,
		})
	}
	return lines, nil
}

func toCartResponse(cartID int64, summary checkout.OrderSummary) CartResponse {
	res := CartResponse{
		CartID:   cartID,
		Items:    make([]CartItemResponse, 0, len(summary.Items)),
		Subtotal: summary.Subtotal,
		Shipping: summary.Shipping,
		Tax:      summary.Tax,
		Total:    summary.Total,
	}

	for _, it := range summary.Items {
		id, _ := strconv.ParseInt(it.ID, 10, 64)
		productID, _ := strconv.ParseInt(it.ProductID, 10, 64)
		res.Items = append(res.Items, CartItemResponse{
			ID:        id,
			ProductID: productID,
			Name:      it.Name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.TotalPrice,
		})
	}

	return res
}

// カートと金額内訳。金額は毎回計算し直す
func (u *CartUsecase) GetMyCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := buildLineItems(ctx, u.productRepo, items)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	summary, err := checkout.CalculateOrderTotals(lines, u.rounding)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart contains a broken item")
	}

	return toCartResponse(cart.ID, summary), nil
}

type AddCartItemInput struct {
	ProductID int64
	Size      string
	Quantity  int64
}

func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Quantity <= 0 || in.Quantity > 99 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//加算後の数量で在庫を超えないかを見る（最終チェックは注文確定時）
	merged := in.Quantity
	if existing, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, in.ProductID, in.Size); err == nil {
		merged += existing.Quantity
	} else if err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Stock < merged {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "insufficient stock")
	}

	//追加時点の単価をスナップショット
	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Size, in.Quantity, p.Price); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetMyCart(ctx, userID)
}

func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, itemID int64, qty int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if qty < 0 || qty > 99 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, itemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "item not found")
	}

	//数量0は削除扱い
	if qty == 0 {
		if err := u.cartItemRepo.DeleteByID(ctx, itemID); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.GetMyCart(ctx, userID)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, itemID, qty); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetMyCart(ctx, userID)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, itemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, itemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "item not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, itemID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetMyCart(ctx, userID)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
