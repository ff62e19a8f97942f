package repositories

import (
	"context"
	"time"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"

	"gorm.io/gorm/clause"
)

type PreferredCleanerRepository interface {
	Exists(ctx context.Context, homeID, cleanerID int) (bool, error)

	// CreateIfAbsent inserts a link unless one already exists for the pair.
	// The (home_id, cleaner_id) unique index makes this safe under concurrent
	// duplicate requests; the returned bool reports whether a row was created.
	CreateIfAbsent(ctx context.Context, link *HomePreferredCleaner) (bool, error)

	// Remove deletes the link for the pair. Removing a missing link is a no-op.
	Remove(ctx context.Context, homeID, cleanerID int) error
}

type preferredCleanerRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPreferredCleanerRepository(db database.DB) PreferredCleanerRepository {
	return &preferredCleanerRepository{
		db:  db,
		log: logger.New("preferredCleanerRepository"),
	}
}

func (r *preferredCleanerRepository) Exists(ctx context.Context, homeID, cleanerID int) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	err := r.db.SQLWithContext(ctx).
		Model(&HomePreferredCleaner{}).
		Where("home_id = ? AND cleaner_id = ?", homeID, cleanerID).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to count preferred links", err,
			"homeID", homeID, "cleanerID", cleanerID)
	}

	return count > 0, nil
}

func (r *preferredCleanerRepository) CreateIfAbsent(
	ctx context.Context,
	link *HomePreferredCleaner,
) (bool, error) {
	log := r.log.Function("CreateIfAbsent")

	if link.SetAt.IsZero() {
		link.SetAt = time.Now()
	}

	result := r.db.SQLWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "home_id"}, {Name: "cleaner_id"}},
			DoNothing: true,
		}).
		Create(link)
	if result.Error != nil {
		return false, log.Err("failed to create preferred link", result.Error,
			"homeID", link.HomeID, "cleanerID", link.CleanerID)
	}

	return result.RowsAffected > 0, nil
}

func (r *preferredCleanerRepository) Remove(ctx context.Context, homeID, cleanerID int) error {
	log := r.log.Function("Remove")

	err := r.db.SQLWithContext(ctx).
		Where("home_id = ? AND cleaner_id = ?", homeID, cleanerID).
		Delete(&HomePreferredCleaner{}).Error
	if err != nil {
		return log.Err("failed to remove preferred link", err,
			"homeID", homeID, "cleanerID", cleanerID)
	}

	return nil
}
