package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type UserListFilter struct {
	Page  int
	Limit int
	Q     string
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error

	//管理画面の顧客一覧
	List(ctx context.Context, f UserListFilter) ([]model.User, int64, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
	SetActive(ctx context.Context, userID int64, active bool) error
	//発行済みトークンを全部無効にする
	BumpTokenVersion(ctx context.Context, userID int64) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
