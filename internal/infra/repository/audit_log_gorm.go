package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	tx := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if f.Action != "" {
		tx = tx.Where("action = ?", f.Action)
	}
	if f.ResourceType != "" {
		tx = tx.Where("resource_type = ?", f.ResourceType)
	}

	var logs []model.AuditLog
	offset := (f.Page - 1) * f.Limit
	if err := tx.Order("id desc").Offset(offset).Limit(f.Limit).Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
