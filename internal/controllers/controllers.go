package controllers

import (
	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/events"
	"brightnest/internal/repositories"
	"brightnest/internal/services"

	bookingController "brightnest/internal/controllers/booking"
	dispatchController "brightnest/internal/controllers/dispatch"
	preferredController "brightnest/internal/controllers/preferred"
	reviewController "brightnest/internal/controllers/review"
)

type Controllers struct {
	Booking   bookingController.BookingControllerInterface
	Review    reviewController.ReviewControllerInterface
	Dispatch  dispatchController.DispatchControllerInterface
	Preferred preferredController.PreferredControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Booking:   bookingController.New(repos, services, config, db),
		Review:    reviewController.New(repos, services, config, db),
		Dispatch:  dispatchController.New(repos, services, config, db),
		Preferred: preferredController.New(repos, services, config, db),
	}
}
