package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	//表示用の通貨記号
	currencySymbol string
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	currencySymbol string,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:    productRepo,
		inventoryRepo:  inventoryRepo,
		auditRepo:      auditRepo,
		currencySymbol: currencySymbol,
	}
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DisplayPrice string          `json:"display_price"`
	Sizes        []string        `json:"sizes"`
	Stock        int64           `json:"stock"`
	IsActive     bool            `json:"is_active"`
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ListProductsOutput struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func (u *ProductUsecase) toResponse(p model.Product) ProductResponse {
	sizes := []string{}
	if p.Sizes != "" {
		sizes = strings.Split(p.Sizes, ",")
	}

	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DisplayPrice: checkout.FormatMoney(p.Price, u.currencySymbol),
		Sizes:        sizes,
		Stock:        p.Stock,
		IsActive:     p.IsActive,
	}
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ListProductsOutput, error) {
	if in.Page < 1 {
		return ListProductsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ListProductsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	q := repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	}

	items, total, err := u.productRepo.ListPublic(ctx, q)
	if err != nil {
		return ListProductsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ListProductsOutput{
		Items: make([]ProductResponse, 0, len(items)),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}
	for _, p := range items {
		out.Items = append(out.Items, u.toResponse(p))
	}

	return out, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (ProductResponse, error) {
	if id <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//非公開の商品は一般には見せない
	if !p.IsActive {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return u.toResponse(p), nil
}

type SaveProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Sizes       []string
	Stock       int64
	IsActive    bool
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, adminID int64, in SaveProductInput) (ProductResponse, error) {
	if adminID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if !in.Price.IsPositive() {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Stock < 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Sizes:       strings.Join(in.Sizes, ","),
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toResponse(created), nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, adminID int64, productID int64, in SaveProductInput) (ProductResponse, error) {
	if adminID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if !in.Price.IsPositive() {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	p := model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Sizes:       strings.Join(in.Sizes, ","),
		IsActive:    in.IsActive,
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toResponse(updated), nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, adminID int64, productID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

type SetStockInput struct {
	NewStock int64
	Reason   string
}

// 在庫変更。調整履歴と監査ログを必ず残す
func (u *ProductUsecase) SetStock(ctx context.Context, adminID int64, productID int64, in SetStockInput) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.NewStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.SetStock(ctx, productID, in.NewStock); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID:   productID,
		AdminUserID: adminID,
		Delta:       in.NewStock - p.Stock,
		Reason:      strings.TrimSpace(in.Reason),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before, _ := json.Marshal(map[string]int64{"stock": p.Stock})
	after, _ := json.Marshal(map[string]int64{"stock": in.NewStock})

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   string(before),
		AfterJSON:    string(after),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

func (u *ProductUsecase) ListAdjustments(ctx context.Context, adminID int64, productID int64) ([]model.InventoryAdjustment, error) {
	if adminID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	list, err := u.inventoryRepo.ListAdjustments(ctx, productID, 50)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}
