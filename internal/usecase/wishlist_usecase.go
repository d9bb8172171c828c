package usecase

import (
	"context"
	"net/http"

	repo "storefront/internal/repository"
)

type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
}

func NewWishlistUsecase(
	wishlistRepo repo.WishlistRepository,
	productRepo repo.ProductRepository,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

type WishlistEntry struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	InStock   bool   `json:"in_stock"`
}

func (u *WishlistUsecase) ListMine(ctx context.Context, userID int64) ([]WishlistEntry, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]WishlistEntry, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			//商品が消えていたらリストから外して返す
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = append(out, WishlistEntry{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price.StringFixed(2),
			InStock:   p.Stock > 0,
		})
	}

	return out, nil
}

func (u *WishlistUsecase) Add(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}

	//重複追加はリポジトリ側で吸収される
	if err := u.wishlistRepo.Add(ctx, userID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := u.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
