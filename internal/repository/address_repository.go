package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type AddressRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	FindByID(ctx context.Context, id int64) (model.Address, error)
	Create(ctx context.Context, a model.Address) (model.Address, error)
	Update(ctx context.Context, a model.Address) error
	Delete(ctx context.Context, id int64) error
	IsOwnedByUser(ctx context.Context, id int64, userID int64) (bool, error)
	//user内でdefaultは1つ
	SetDefault(ctx context.Context, userID int64, addressID int64) error
}
