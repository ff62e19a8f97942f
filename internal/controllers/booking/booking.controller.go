package bookingController

import (
	"context"
	"errors"

	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/services"

	"gorm.io/gorm"
)

// ErrDuplicateRequest means the cleaner already has a pending request for the
// appointment. The first request stands; this is not a server fault.
var ErrDuplicateRequest = errors.New("a request for this appointment already exists")

// BookingOutcome is the applied result of a booking attempt.
type BookingOutcome struct {
	Decision    services.BookingDecision `json:"decision"`
	Appointment *Appointment             `json:"appointment"`
}

type BookingController struct {
	appointmentRepo    repositories.AppointmentRepository
	pendingRequestRepo repositories.PendingRequestRepository
	preferredService   *services.PreferredCleanerService
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type BookingControllerInterface interface {
	Book(ctx context.Context, cleaner *User, appointmentID int) (BookingOutcome, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) BookingControllerInterface {
	return &BookingController{
		appointmentRepo:    repos.Appointment,
		pendingRequestRepo: repos.PendingRequest,
		preferredService:   services.Preferred,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("bookingController"),
	}
}

// Book runs a cleaner's attempt to take an appointment. Preferred status is
// resolved first, the decision itself is pure, and only then are its side
// effects applied: either an immediate assignment or a pending approval
// request.
func (bc *BookingController) Book(
	ctx context.Context,
	cleaner *User,
	appointmentID int,
) (BookingOutcome, error) {
	log := bc.log.Function("Book")

	if cleaner.Type != UserTypeCleaner {
		return BookingOutcome{}, log.ErrMsg("only cleaners can book appointments")
	}

	appointment, err := bc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return BookingOutcome{}, log.Err("failed to load appointment", err,
			"appointmentID", appointmentID)
	}
	if appointment.Status != AppointmentStatusPending {
		return BookingOutcome{}, log.ErrMsg("appointment is no longer open")
	}

	isPreferred, err := bc.preferredService.IsPreferred(ctx, appointment.HomeID, cleaner.ID)
	if err != nil {
		return BookingOutcome{}, log.Err("failed to resolve preferred status", err,
			"homeID", appointment.HomeID, "cleanerID", cleaner.ID)
	}

	decision := services.Decide(isPreferred)

	if decision.AssignImmediately {
		// The employee append and the status flip must land together, or a
		// half-assigned appointment stays visible to the last-minute sweep.
		err := bc.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			return bc.appointmentRepo.Assign(ctx, tx, appointment, cleaner)
		})
		if err != nil {
			return BookingOutcome{}, log.Err("failed to assign appointment", err,
				"appointmentID", appointmentID, "cleanerID", cleaner.ID)
		}
		log.Info("appointment booked directly",
			"appointmentID", appointmentID, "cleanerID", cleaner.ID)
		return BookingOutcome{Decision: decision, Appointment: appointment}, nil
	}

	if decision.CreatePendingRequest {
		created, err := bc.pendingRequestRepo.CreateIfAbsent(ctx, &PendingRequest{
			AppointmentID: appointmentID,
			RequesterID:   cleaner.ID,
		})
		if err != nil {
			return BookingOutcome{}, log.Err("failed to create pending request", err,
				"appointmentID", appointmentID, "cleanerID", cleaner.ID)
		}
		if !created {
			log.Info("duplicate pending request ignored",
				"appointmentID", appointmentID, "cleanerID", cleaner.ID)
			return BookingOutcome{}, ErrDuplicateRequest
		}
		log.Info("approval request created",
			"appointmentID", appointmentID, "cleanerID", cleaner.ID)
	}

	return BookingOutcome{Decision: decision, Appointment: appointment}, nil
}
