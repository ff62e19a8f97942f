package dispatchController

import (
	"context"
	"errors"

	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/services"
)

var (
	ErrRateLimited       = errors.New("too many dispatch attempts, slow down")
	ErrAlreadyDispatched = errors.New("appointment has already been dispatched")
)

type DispatchController struct {
	appointmentRepo repositories.AppointmentRepository
	homeRepo        repositories.HomeRepository
	dispatchService *services.UrgentDispatchService
	rateLimiter     *services.RateLimiterService
	db              database.DB
	Config          config.Config
	log             logger.Logger
}

type DispatchControllerInterface interface {
	TriggerDispatch(
		ctx context.Context,
		requestedBy *User,
		appointmentID int,
		io services.Realtime,
	) (services.DispatchResult, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) DispatchControllerInterface {
	return &DispatchController{
		appointmentRepo: repos.Appointment,
		homeRepo:        repos.Home,
		dispatchService: services.UrgentDispatch,
		rateLimiter:     services.RateLimiter,
		db:              db,
		Config:          config,
		log:             logger.New("dispatchController"),
	}
}

// TriggerDispatch fans an urgent job out on demand, typically when a cleaner
// cancels close to the appointment. Rate limited per user so a stuck client
// cannot spam every nearby cleaner.
func (dc *DispatchController) TriggerDispatch(
	ctx context.Context,
	requestedBy *User,
	appointmentID int,
	io services.Realtime,
) (services.DispatchResult, error) {
	log := dc.log.Function("TriggerDispatch")

	allowed, err := dc.rateLimiter.AllowDispatchTrigger(ctx, requestedBy.ID)
	if err != nil {
		return services.DispatchResult{}, log.Err("failed to check dispatch rate limit", err,
			"userID", requestedBy.ID)
	}
	if !allowed {
		log.Warn("dispatch trigger rate limited", "userID", requestedBy.ID)
		return services.DispatchResult{}, ErrRateLimited
	}

	appointment, err := dc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return services.DispatchResult{}, log.Err("failed to load appointment", err,
			"appointmentID", appointmentID)
	}
	if !appointment.NeedsLastMinuteDispatch() {
		return services.DispatchResult{}, ErrAlreadyDispatched
	}

	home := appointment.Home
	if home == nil {
		home, err = dc.homeRepo.GetByID(ctx, appointment.HomeID)
		if err != nil {
			return services.DispatchResult{}, log.Err("failed to load home", err,
				"homeID", appointment.HomeID)
		}
	}

	result, err := dc.dispatchService.NotifyNearbyCleaners(ctx, appointment, home, io)
	if err != nil {
		return services.DispatchResult{}, log.Err("dispatch failed", err,
			"appointmentID", appointmentID)
	}

	return result, nil
}
