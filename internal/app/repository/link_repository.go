package repository

import (
	"context"
	"strings"
	"time"

	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/errx"
	"gorm.io/gorm"
)

// LinkRepository defines the data access contract for short links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByCode(ctx context.Context, code string) (*model.Link, error)
	List(ctx context.Context, search string) ([]model.Link, error)
	Delete(ctx context.Context, code string) error
	// RecordClick bumps the counters of link id and appends click in one transaction.
	RecordClick(ctx context.Context, id int64, click *model.ClickLog) error
	Codes(ctx context.Context) ([]string, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	const op = "repository.links.Create"

	if err := r.db.WithContext(ctx).Omit("ClickLogs").Create(link).Error; err != nil {
		return mapError(op, err)
	}
	return nil
}

func (r *linkRepository) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	const op = "repository.links.GetByCode"

	var link model.Link
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		return nil, mapError(op, err)
	}
	return &link, nil
}

func (r *linkRepository) List(ctx context.Context, search string) ([]model.Link, error) {
	const op = "repository.links.List"

	query := r.db.WithContext(ctx).Model(&model.Link{})
	if search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("short_code ILIKE ? OR original_url ILIKE ?", pattern, pattern)
	}

	result := make([]model.Link, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&result).Error; err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

func (r *linkRepository) Delete(ctx context.Context, code string) error {
	const op = "repository.links.Delete"

	result := r.db.WithContext(ctx).Where("short_code = ?", code).Delete(&model.Link{})
	if result.Error != nil {
		return mapError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return errx.E(op, errx.NotFound, ErrLinkNotFound)
	}
	return nil
}

func (r *linkRepository) RecordClick(ctx context.Context, id int64, click *model.ClickLog) error {
	const op = "repository.links.RecordClick"

	if click.ClickTime.IsZero() {
		click.ClickTime = time.Now().UTC()
	}
	click.URLID = id

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Link{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"click_count":     gorm.Expr("click_count + 1"),
				"last_clicked_at": click.ClickTime,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return NewClickLogRepository(tx).Create(ctx, click)
	})
	if err != nil {
		if errx.KindOf(err) != errx.Unknown {
			return errx.E(op, errx.KindOf(err), err)
		}
		return mapError(op, err)
	}
	return nil
}

func (r *linkRepository) Codes(ctx context.Context) ([]string, error) {
	const op = "repository.links.Codes"

	var codes []string
	if err := r.db.WithContext(ctx).Model(&model.Link{}).Pluck("short_code", &codes).Error; err != nil {
		return nil, mapError(op, err)
	}
	return codes, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
