package postgres

import (
	"context"

	"github.com/sifan077/linkpulse/internal/app/model"
	"gorm.io/gorm"
)

// Migrate brings the links and click_logs tables up to date, including the
// cascading foreign key from click_logs.url_id to links.id.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return AutoMigrate(ctx, db, &model.Link{}, &model.ClickLog{})
}
