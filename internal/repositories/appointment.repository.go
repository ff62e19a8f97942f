package repositories

import (
	"context"
	"time"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	GetByID(ctx context.Context, id int) (*Appointment, error)

	// Assign marks the appointment assigned and appends the cleaner to its
	// employee list. Both writes run on the supplied transaction so a failed
	// status update cannot leave an orphaned employee row.
	Assign(ctx context.Context, tx *gorm.DB, appointment *Appointment, cleaner *User) error

	// MarkDispatched stamps lastMinuteNotificationsSentAt.
	MarkDispatched(ctx context.Context, appointmentID int, at time.Time) error

	// FindNeedingDispatch returns pending appointments starting before the
	// cutoff that have not been swept yet.
	FindNeedingDispatch(ctx context.Context, cutoff time.Time) ([]Appointment, error)
}

type appointmentRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAppointmentRepository(db database.DB) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: logger.New("appointmentRepository"),
	}
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int) (*Appointment, error) {
	log := r.log.Function("GetByID")

	var appointment Appointment
	err := r.db.SQLWithContext(ctx).
		Preload("Home").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		return nil, log.Err("failed to get appointment by id", err, "id", id)
	}

	return &appointment, nil
}

func (r *appointmentRepository) Assign(
	ctx context.Context,
	tx *gorm.DB,
	appointment *Appointment,
	cleaner *User,
) error {
	log := r.log.Function("Assign")

	if err := tx.WithContext(ctx).Model(appointment).Association("AssignedEmployees").Append(cleaner); err != nil {
		return log.Err("failed to append assigned employee", err,
			"appointmentID", appointment.ID, "cleanerID", cleaner.ID)
	}

	err := tx.WithContext(ctx).Model(appointment).
		Update("status", AppointmentStatusAssigned).Error
	if err != nil {
		return log.Err("failed to update appointment status", err,
			"appointmentID", appointment.ID)
	}

	return nil
}

func (r *appointmentRepository) MarkDispatched(
	ctx context.Context,
	appointmentID int,
	at time.Time,
) error {
	log := r.log.Function("MarkDispatched")

	err := r.db.SQLWithContext(ctx).
		Model(&Appointment{}).
		Where("id = ?", appointmentID).
		Update("last_minute_notifications_sent_at", at).Error
	if err != nil {
		return log.Err("failed to mark appointment dispatched", err,
			"appointmentID", appointmentID)
	}

	return nil
}

func (r *appointmentRepository) FindNeedingDispatch(
	ctx context.Context,
	cutoff time.Time,
) ([]Appointment, error) {
	log := r.log.Function("FindNeedingDispatch")

	var appointments []Appointment
	err := r.db.SQLWithContext(ctx).
		Preload("Home").
		Where("status = ?", AppointmentStatusPending).
		Where("last_minute_notifications_sent_at IS NULL").
		Where("date > now() AND date <= ?", cutoff).
		Order("date asc").
		Find(&appointments).Error
	if err != nil {
		return nil, log.Err("failed to query appointments needing dispatch", err)
	}

	return appointments, nil
}
