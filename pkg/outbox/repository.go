package outbox

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository persists outbox rows through the shared GORM connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository to a GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert stages one event inside the caller's transaction.
func (r *Repository) Insert(tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchUnpublished returns up to limit staged events, oldest first.
func (r *Repository) FetchUnpublished(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []Event
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// MarkPublished stamps the event as delivered.
func (r *Repository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(map[string]any{"published_at": at, "last_error": ""}).Error
}

// MarkFailed bumps the attempt counter and records the publish error.
func (r *Repository) MarkFailed(ctx context.Context, id string, publishErr error) error {
	message := ""
	if publishErr != nil {
		message = publishErr.Error()
	}
	return r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": message,
		}).Error
}
