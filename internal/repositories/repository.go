package repositories

import (
	"brightnest/internal/database"
)

type Repository struct {
	User             UserRepository
	Home             HomeRepository
	PreferredCleaner PreferredCleanerRepository
	Appointment      AppointmentRepository
	PendingRequest   PendingRequestRepository
	Notification     NotificationRepository
	Review           ReviewRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:             NewUserRepository(db),
		Home:             NewHomeRepository(db), // home repo fronts the valkey home cache
		PreferredCleaner: NewPreferredCleanerRepository(db),
		Appointment:      NewAppointmentRepository(db),
		PendingRequest:   NewPendingRequestRepository(db),
		Notification:     NewNotificationRepository(db),
		Review:           NewReviewRepository(db),
	}
}
