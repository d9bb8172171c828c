package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	txManager     repo.TransactionManager
}

func NewAdminOrderUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	txManager repo.TransactionManager,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		txManager:     txManager,
	}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, adminID int64, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if adminID <= 0 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AdminOrderListOutput{Items: orders, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AdminOrderUsecase) GetDetail(ctx context.Context, adminID int64, orderID int64) (OrderDetailResponse, error) {
	if adminID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailResponse{
		OrderResponse: toOrderResponse(o),
		Items:         toOrderItemResponses(items),
	}, nil
}

// 許可するステータス遷移
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending: {model.OrderStatusPaid, model.OrderStatusCanceled},
	model.OrderStatusPaid:    {model.OrderStatusShipped, model.OrderStatusCanceled},
}

func canTransition(from, to model.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ステータス変更。キャンセル時は在庫を戻し、変更は監査ログに残す
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminID int64, orderID int64, to model.OrderStatus) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	switch to {
	case model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCanceled:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	//読み取り→遷移チェック→更新→在庫戻し→監査ログを1トランザクションで行う
	txErr := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return err
		}

		if !canTransition(o.Status, to) {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		//読んだ時点のステータスのままの行だけ更新する（並行リクエスト対策）
		ok, err := r.Orders().UpdateStatusIfCurrent(ctx, orderID, o.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		//キャンセルは引き当てた在庫を戻す
		if to == model.OrderStatusCanceled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		before, _ := json.Marshal(map[string]string{"status": string(o.Status)})
		after, _ := json.Marshal(map[string]string{"status": string(to)})

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
		})
	})
	if txErr != nil {
		if he, ok := AsHTTPError(txErr); ok {
			return he
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
