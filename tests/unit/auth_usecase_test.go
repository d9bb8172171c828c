package unit

import (
	"context"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	appvalidator "storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users  *userRepoMock
	rtRepo *refreshTokenRepoMock
	uc     *usecase.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  new(userRepoMock),
		rtRepo: new(refreshTokenRepoMock),
	}
	cfg := config.Config{JWTSecret: "test-secret"}
	f.uc = usecase.NewAuthUsecase(cfg, f.users, f.rtRepo, appvalidator.NewAuthValidator(f.users))
	return f
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, repo.ErrNotFound)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == model.RoleUser &&
			u.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil)

	res, err := f.uc.Register(ctx, usecase.AuthRegisterRequest{
		Email:       "new@example.com",
		Password:    "password123",
		DisplayName: "New User",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", res.User.Email)
	f.users.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 1, Email: "taken@example.com"}, nil)

	_, err := f.uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, usecase.ErrConflict)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "new@example.com",
		Password: "short",
	})

	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user := &model.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: mustHash(t, "password123"),
		Role:         model.RoleUser,
		TokenVersion: 3,
		IsActive:     true,
	}
	f.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 1 && rt.TokenHash != "" && rt.UserAgent == "test-agent"
	})).Return(nil)

	res, err := f.uc.Login(ctx, usecase.AuthLoginRequest{Email: "user@example.com", Password: "password123"}, "test-agent")

	assert.NoError(t, err)
	assert.NotEmpty(t, res.Body.Token.AccessToken)
	assert.Equal(t, 3, res.Body.Token.TokenVersion)
	assert.NotEmpty(t, res.RefreshTokenPlain)
	assert.NotEmpty(t, res.CsrfTokenPlain)
	//平文tokenはDBに置かない
	f.rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()

	user := &model.User{ID: 1, Email: "user@example.com", PasswordHash: mustHash(t, "password123"), IsActive: true}
	f.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)

	_, err := f.uc.Login(context.Background(), usecase.AuthLoginRequest{Email: "user@example.com", Password: "wrong-password"}, "")

	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	f.rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_DeactivatedUser(t *testing.T) {
	f := newAuthFixture()

	user := &model.User{ID: 1, Email: "user@example.com", PasswordHash: mustHash(t, "password123"), IsActive: false}
	f.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)

	_, err := f.uc.Login(context.Background(), usecase.AuthLoginRequest{Email: "user@example.com", Password: "password123"}, "")

	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestAuthUsecase_Refresh_RotatesToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		TokenHash: "hash-1",
		UserAgent: "test-agent",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(rt, nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Role: model.RoleUser, TokenVersion: 0, IsActive: true}, nil)
	f.rtRepo.On("MarkUsed", mock.Anything, "rt-1").Return(nil)
	f.rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *model.RefreshToken) bool {
		return n.UserID == 1 && n.ID != "rt-1" && n.TokenHash != "hash-1"
	})).Return(nil)

	res, err := f.uc.Refresh(ctx, "old-token-plain", "test-agent")

	assert.NoError(t, err)
	assert.NotEmpty(t, res.Body.AccessToken)
	assert.NotEmpty(t, res.RefreshTokenPlain)
	f.rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Refresh_ReplayDetected(t *testing.T) {
	f := newAuthFixture()

	used := time.Now().Add(-time.Minute)
	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		UsedAt:    &used,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(rt, nil)
	f.rtRepo.On("DeleteAllByUserID", mock.Anything, int64(1)).Return(nil)

	_, err := f.uc.Refresh(context.Background(), "replayed-token", "")

	//再利用を検知したらそのユーザーのtokenを全部消す
	assert.ErrorIs(t, err, usecase.ErrSecurityIncident)
	f.rtRepo.AssertCalled(t, "DeleteAllByUserID", mock.Anything, int64(1))
}

func TestAuthUsecase_Refresh_UserAgentMismatch(t *testing.T) {
	f := newAuthFixture()

	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		UserAgent: "original-agent",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(rt, nil)
	f.rtRepo.On("DeleteAllByUserID", mock.Anything, int64(1)).Return(nil)

	_, err := f.uc.Refresh(context.Background(), "stolen-token", "another-agent")

	assert.ErrorIs(t, err, usecase.ErrSecurityIncident)
}

func TestAuthUsecase_Refresh_ExpiredTokenIsDeleted(t *testing.T) {
	f := newAuthFixture()

	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	f.rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(rt, nil)
	f.rtRepo.On("DeleteByID", mock.Anything, "rt-1").Return(nil)

	_, err := f.uc.Refresh(context.Background(), "expired-token", "")

	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	f.rtRepo.AssertCalled(t, "DeleteByID", mock.Anything, "rt-1")
}

func TestAuthUsecase_UpdateProfile_RejectsEmptyName(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.UpdateProfile(context.Background(), 1, usecase.UpdateProfileRequest{DisplayName: "   "})
	assert.ErrorIs(t, err, usecase.ErrValidation)
}
