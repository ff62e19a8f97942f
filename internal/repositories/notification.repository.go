package repositories

import (
	"context"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	CountUnread(ctx context.Context, userID int) (int64, error)
	ListByUser(ctx context.Context, userID int, limit int) ([]Notification, error)
}

type notificationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNotificationRepository(db database.DB) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err,
			"userID", notification.UserID, "type", notification.Type)
	}

	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int) (int64, error) {
	log := r.log.Function("CountUnread")

	var count int64
	err := r.db.SQLWithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Where("expires_at IS NULL OR expires_at > now()").
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count unread notifications", err, "userID", userID)
	}

	return count, nil
}

func (r *notificationRepository) ListByUser(
	ctx context.Context,
	userID int,
	limit int,
) ([]Notification, error) {
	log := r.log.Function("ListByUser")

	if limit <= 0 {
		limit = 50
	}

	var notifications []Notification
	err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, log.Err("failed to list notifications", err, "userID", userID)
	}

	return notifications, nil
}
