package repositories

import (
	"context"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"

	"gorm.io/gorm/clause"
)

type PendingRequestRepository interface {
	// CreateIfAbsent inserts a pending request unless the cleaner already has
	// one for the appointment. The (appointment_id, requester_id) unique index
	// is the duplicate guard; the returned bool reports whether a row was
	// created.
	CreateIfAbsent(ctx context.Context, request *PendingRequest) (bool, error)

	ListByAppointment(ctx context.Context, appointmentID int) ([]PendingRequest, error)
}

type pendingRequestRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPendingRequestRepository(db database.DB) PendingRequestRepository {
	return &pendingRequestRepository{
		db:  db,
		log: logger.New("pendingRequestRepository"),
	}
}

func (r *pendingRequestRepository) CreateIfAbsent(
	ctx context.Context,
	request *PendingRequest,
) (bool, error) {
	log := r.log.Function("CreateIfAbsent")

	if request.Status == "" {
		request.Status = PendingRequestOpen
	}

	result := r.db.SQLWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appointment_id"}, {Name: "requester_id"}},
			DoNothing: true,
		}).
		Create(request)
	if result.Error != nil {
		return false, log.Err("failed to create pending request", result.Error,
			"appointmentID", request.AppointmentID, "requesterID", request.RequesterID)
	}

	return result.RowsAffected > 0, nil
}

func (r *pendingRequestRepository) ListByAppointment(
	ctx context.Context,
	appointmentID int,
) ([]PendingRequest, error) {
	log := r.log.Function("ListByAppointment")

	var requests []PendingRequest
	err := r.db.SQLWithContext(ctx).
		Preload("Requester").
		Where("appointment_id = ?", appointmentID).
		Order("created_at asc").
		Find(&requests).Error
	if err != nil {
		return nil, log.Err("failed to list pending requests", err,
			"appointmentID", appointmentID)
	}

	return requests, nil
}
