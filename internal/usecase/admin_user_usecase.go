package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminUserUsecase struct {
	userRepo         repo.UserRepository
	refreshTokenRepo repo.RefreshTokenRepository
	auditRepo        repo.AuditLogRepository
}

func NewAdminUserUsecase(
	userRepo repo.UserRepository,
	refreshTokenRepo repo.RefreshTokenRepository,
	auditRepo repo.AuditLogRepository,
) *AdminUserUsecase {
	return &AdminUserUsecase{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditRepo:        auditRepo,
	}
}

type CustomerResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
}

type CustomerListOutput struct {
	Items []CustomerResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (u *AdminUserUsecase) ListCustomers(ctx context.Context, adminID int64, page int, limit int, q string) (CustomerListOutput, error) {
	if adminID <= 0 {
		return CustomerListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	users, total, err := u.userRepo.List(ctx, repo.UserListFilter{Page: page, Limit: limit, Q: q})
	if err != nil {
		return CustomerListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CustomerListOutput{
		Items: make([]CustomerResponse, 0, len(users)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, usr := range users {
		out.Items = append(out.Items, CustomerResponse{
			ID:          usr.ID,
			Email:       usr.Email,
			DisplayName: usr.DisplayName,
			Role:        string(usr.Role),
			IsActive:    usr.IsActive,
		})
	}

	return out, nil
}

// アカウントの有効/無効切り替え。無効化時は発行済みトークンも全部無効にする
func (u *AdminUserUsecase) SetActive(ctx context.Context, adminID int64, userID int64, active bool) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	//自分自身は無効化できない
	if userID == adminID && !active {
		return NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}

	target, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.userRepo.SetActive(ctx, userID, active); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !active {
		if _, err := u.userRepo.BumpTokenVersion(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := u.refreshTokenRepo.DeleteAllByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	before, _ := json.Marshal(map[string]bool{"is_active": target.IsActive})
	after, _ := json.Marshal(map[string]bool{"is_active": active})

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminID,
		Action:       model.AuditActionSetUserActive,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   string(before),
		AfterJSON:    string(after),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// 強制ログアウト。アカウントは有効のままトークンだけ無効にする
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, adminID int64, userID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, err := u.userRepo.BumpTokenVersion(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.refreshTokenRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
