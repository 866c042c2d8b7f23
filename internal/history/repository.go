package history

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trentmcnitt/cc-notifier/internal/models"
)

// Repository handles all database operations for notification history.
// A nil *Repository is a valid disabled recorder; its write methods
// are no-ops so callers never branch on history being configured.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// RecordNotification inserts one sent notification.
func (r *Repository) RecordNotification(n *models.Notification) error {
	if r == nil {
		return nil
	}
	result := r.db.Create(n)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert notification")
	}
	return nil
}

// RecordError inserts one error entry.
func (r *Repository) RecordError(sessionID, msg string) error {
	if r == nil {
		return nil
	}
	result := r.db.Create(&models.ErrorLog{SessionID: sessionID, ErrorMsg: msg})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// RecentNotifications returns the newest notifications, capped at limit.
func (r *Repository) RecentNotifications(limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	result := r.db.Order("created_at DESC").Limit(limit).Find(&notifications)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query notifications")
	}
	return notifications, nil
}

// DeleteOlderThan hard-deletes notifications and error logs created
// before the cutoff and returns how many rows were removed. History is
// age-bounded, so rows really go away rather than being soft-deleted.
func (r *Repository) DeleteOlderThan(before time.Time) (int64, error) {
	if r == nil {
		return 0, nil
	}
	var removed int64

	result := r.db.Where("created_at < ?", before).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old notifications")
	}
	removed += result.RowsAffected

	result = r.db.Where("created_at < ?", before).Delete(&models.ErrorLog{})
	if result.Error != nil {
		return removed, errors.Wrap(result.Error, "failed to delete old error logs")
	}
	removed += result.RowsAffected

	return removed, nil
}
