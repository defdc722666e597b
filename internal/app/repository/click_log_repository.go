package repository

import (
	"context"

	"github.com/sifan077/linkpulse/internal/app/model"
	"gorm.io/gorm"
)

// ClickLogRepository defines the data access contract for per-click log rows.
type ClickLogRepository interface {
	Create(ctx context.Context, click *model.ClickLog) error
	ListByLink(ctx context.Context, linkID int64) ([]model.ClickLog, error)
}

type clickLogRepository struct {
	db *gorm.DB
}

// NewClickLogRepository returns a GORM-backed ClickLogRepository. Passing a transaction
// handle scopes every call to that transaction.
func NewClickLogRepository(db *gorm.DB) ClickLogRepository {
	return &clickLogRepository{db: db}
}

func (r *clickLogRepository) Create(ctx context.Context, click *model.ClickLog) error {
	const op = "repository.clicks.Create"

	if err := r.db.WithContext(ctx).Create(click).Error; err != nil {
		return mapError(op, err)
	}
	return nil
}

func (r *clickLogRepository) ListByLink(ctx context.Context, linkID int64) ([]model.ClickLog, error) {
	const op = "repository.clicks.ListByLink"

	logs := make([]model.ClickLog, 0)
	if err := r.db.WithContext(ctx).
		Where("url_id = ?", linkID).
		Order("click_time DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, mapError(op, err)
	}
	return logs, nil
}
