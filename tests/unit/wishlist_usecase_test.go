package unit

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newWishlistFixture() (*wishlistRepoMock, *productRepoMock, *usecase.WishlistUsecase) {
	wRepo := new(wishlistRepoMock)
	pRepo := new(productRepoMock)
	return wRepo, pRepo, usecase.NewWishlistUsecase(wRepo, pRepo)
}

func TestWishlistUsecase_ListMine_SkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	wRepo, pRepo, uc := newWishlistFixture()

	wRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.WishlistItem{
		{UserID: 1, ProductID: 101},
		{UserID: 1, ProductID: 102},
	}, nil)
	pRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, Name: "Tee", Price: dec("10.50"), Stock: 3, IsActive: true}, nil)
	pRepo.On("FindByID", mock.Anything, int64(102)).Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.ListMine(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "10.50", out[0].Price)
	assert.True(t, out[0].InStock)
}

func TestWishlistUsecase_Add_InactiveProduct(t *testing.T) {
	wRepo, pRepo, uc := newWishlistFixture()

	pRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, IsActive: false}, nil)

	err := uc.Add(context.Background(), 1, 101)

	assertErrContains(t, err, "product not found")
	wRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistUsecase_Remove(t *testing.T) {
	wRepo, _, uc := newWishlistFixture()

	wRepo.On("Remove", mock.Anything, int64(1), int64(101)).Return(nil)

	err := uc.Remove(context.Background(), 1, 101)

	assert.NoError(t, err)
	wRepo.AssertExpectations(t)
}
