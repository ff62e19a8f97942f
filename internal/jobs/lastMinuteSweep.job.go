package jobs

import (
	"context"
	"time"

	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/services"
)

const (
	LastMinuteSweepJobName = "last-minute-sweep"

	// Appointments starting within this window and still unassigned count as
	// last-minute.
	lastMinuteWindow = 24 * time.Hour
)

// Dispatcher is the fan-out the sweep hands each urgent appointment to.
type Dispatcher interface {
	NotifyNearbyCleaners(
		ctx context.Context,
		appointment *Appointment,
		home *Home,
		io services.Realtime,
	) (services.DispatchResult, error)
}

// LastMinuteSweepJob finds appointments that are about to start without an
// assigned cleaner and dispatches them to nearby cleaners. Runs hourly; the
// dispatch timestamp on the appointment keeps reruns from double-notifying.
type LastMinuteSweepJob struct {
	appointmentRepo repositories.AppointmentRepository
	homeRepo        repositories.HomeRepository
	dispatcher      Dispatcher
	realtime        services.Realtime
	log             logger.Logger
}

func NewLastMinuteSweepJob(
	repos repositories.Repository,
	dispatcher Dispatcher,
	realtime services.Realtime,
) *LastMinuteSweepJob {
	return &LastMinuteSweepJob{
		appointmentRepo: repos.Appointment,
		homeRepo:        repos.Home,
		dispatcher:      dispatcher,
		realtime:        realtime,
		log:             logger.New("lastMinuteSweepJob"),
	}
}

func (j *LastMinuteSweepJob) Name() string {
	return LastMinuteSweepJobName
}

func (j *LastMinuteSweepJob) Schedule() services.Schedule {
	return services.Hourly
}

func (j *LastMinuteSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := time.Now().Add(lastMinuteWindow)
	appointments, err := j.appointmentRepo.FindNeedingDispatch(ctx, cutoff)
	if err != nil {
		return log.Err("failed to find appointments needing dispatch", err)
	}

	if len(appointments) == 0 {
		log.Debug("no appointments need dispatch")
		return nil
	}

	log.Info("sweeping urgent appointments", "count", len(appointments))

	dispatched := 0
	for i := range appointments {
		appointment := &appointments[i]

		home := appointment.Home
		if home == nil {
			home, err = j.homeRepo.GetByID(ctx, appointment.HomeID)
			if err != nil {
				log.Warn("failed to load home, skipping appointment",
					"appointmentID", appointment.ID, "error", err)
				continue
			}
		}

		result, err := j.dispatcher.NotifyNearbyCleaners(ctx, appointment, home, j.realtime)
		if err != nil {
			log.Warn("dispatch failed, skipping appointment",
				"appointmentID", appointment.ID, "error", err)
			continue
		}

		dispatched++
		log.Info("appointment dispatched",
			"appointmentID", appointment.ID, "notified", result.NotifiedCount)
	}

	log.Info("sweep complete", "dispatched", dispatched, "total", len(appointments))
	return nil
}
