package validator

import (
	"context"
	"strings"

	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/go-playground/validator/v10"
)

type authInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

type authValidator struct {
	v     *validator.Validate
	users repo.UserRepository
}

// UsecaseはinterfaceでValidatorを受け取る
func NewAuthValidator(users repo.UserRepository) usecase.AuthValidator {
	return &authValidator{
		v:     validator.New(),
		users: users,
	}
}

// サインアップの入力を検証
func (av *authValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	in := authInput{Email: strings.TrimSpace(email), Password: password}
	if err := av.v.Struct(in); err != nil {
		return usecase.ErrValidation
	}

	//email重複チェック
	if u, err := av.users.FindByEmail(ctx, in.Email); err == nil && u != nil {
		return usecase.ErrConflict
	}

	return nil
}

// ログインの入力を検証。存在確認はusecase側でやる
func (av *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	in := authInput{Email: strings.TrimSpace(email), Password: password}
	if err := av.v.Struct(in); err != nil {
		return usecase.ErrValidation
	}
	return nil
}

func (av *authValidator) ValidateRefresh(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return usecase.ErrUnauthorized
	}
	return nil
}
