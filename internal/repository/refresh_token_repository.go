package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, rt *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
	//再利用検知などでそのユーザーの分を全削除
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
