package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"brightnest/internal/events"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/utils"
)

// dispatchChannelTimeout bounds each push/email handoff so one hung call
// cannot stall the rest of the batch.
const dispatchChannelTimeout = 5 * time.Second

// DispatchResult reports which cleaners were reached by a dispatch run.
// CleanerIDs preserves rank order and only counts cleaners whose in-app
// notification was stored; push and email are best-effort on top of that.
type DispatchResult struct {
	NotifiedCount int   `json:"notifiedCount"`
	CleanerIDs    []int `json:"cleanerIds"`
}

// Realtime pushes targeted live events to a connected user. Nil is a valid
// collaborator; dispatch then skips the live-update step.
type Realtime interface {
	EmitToUser(ctx context.Context, userID int, event string, data map[string]any) error
}

// CleanerFinder is the ranked-candidate lookup consumed by dispatch.
type CleanerFinder interface {
	FindNearbyCleaners(
		ctx context.Context,
		homeLat, homeLon float64,
		radiusMiles float64,
		opts FindOptions,
	) ([]CandidateCleaner, error)
}

// RadiusResolver supplies the dispatch search radius from business config.
type RadiusResolver interface {
	LastMinuteRadiusMiles(ctx context.Context) float64
}

type UrgentDispatchService struct {
	appointmentRepo  repositories.AppointmentRepository
	notificationRepo repositories.NotificationRepository
	finder           CleanerFinder
	radius           RadiusResolver
	codec            Codec
	email            EmailSender
	push             PushSender
	log              logger.Logger
}

func NewUrgentDispatchService(
	repos repositories.Repository,
	finder CleanerFinder,
	radius RadiusResolver,
	codec Codec,
	email EmailSender,
	push PushSender,
) *UrgentDispatchService {
	return &UrgentDispatchService{
		appointmentRepo:  repos.Appointment,
		notificationRepo: repos.Notification,
		finder:           finder,
		radius:           radius,
		codec:            codec,
		email:            email,
		push:             push,
		log:              logger.New("urgentDispatchService"),
	}
}

// NotifyNearbyCleaners fans an urgent job out to every eligible cleaner near
// the home. Each cleaner is processed independently: a failure for one is
// logged and skipped, never aborting the rest. The appointment is stamped as
// dispatched after the loop no matter how many cleaners were reached, so a
// sweep never re-dispatches the same job.
//
// Unreadable home coordinates are an expected failure mode (stale or corrupt
// rows) and yield an empty result, not an error. Only a finder failure
// propagates.
func (s *UrgentDispatchService) NotifyNearbyCleaners(
	ctx context.Context,
	appointment *Appointment,
	home *Home,
	io Realtime,
) (DispatchResult, error) {
	log := s.log.Function("NotifyNearbyCleaners")
	result := DispatchResult{CleanerIDs: []int{}}

	homeLat, homeLon, ok := s.decodeHomeCoordinates(home)
	if !ok {
		log.Warn("aborting dispatch, home coordinates unreadable",
			"appointmentID", appointment.ID, "homeID", home.ID)
		return result, nil
	}

	radiusMiles := s.radius.LastMinuteRadiusMiles(ctx)

	candidates, err := s.finder.FindNearbyCleaners(ctx, homeLat, homeLon, radiusMiles,
		FindOptions{PrioritizeVerified: true})
	if err != nil {
		return result, log.Err("failed to find nearby cleaners", err,
			"appointmentID", appointment.ID)
	}
	if len(candidates) == 0 {
		log.Info("no cleaners in range", "appointmentID", appointment.ID, "radiusMiles", radiusMiles)
		return result, nil
	}

	for _, candidate := range candidates {
		if !s.notifyCandidate(ctx, appointment, home, candidate, io) {
			continue
		}
		result.CleanerIDs = append(result.CleanerIDs, candidate.Cleaner.ID)
	}

	s.markDispatched(ctx, appointment.ID)

	result.NotifiedCount = len(result.CleanerIDs)
	log.Info("dispatch complete",
		"appointmentID", appointment.ID,
		"candidates", len(candidates),
		"notified", result.NotifiedCount)

	return result, nil
}

// notifyCandidate runs the per-cleaner channel fan-out. The stored in-app
// notification is the canonical "was notified" signal; when it fails the
// candidate does not count. Push, email, and realtime failures only degrade
// the experience and are logged without affecting the outcome.
func (s *UrgentDispatchService) notifyCandidate(
	ctx context.Context,
	appointment *Appointment,
	home *Home,
	candidate CandidateCleaner,
	io Realtime,
) bool {
	log := s.log.Function("notifyCandidate")
	cleaner := candidate.Cleaner

	price := appointment.Price.StringFixed(2)
	title := "Urgent Cleaning Job Available"
	body := fmt.Sprintf("A last-minute cleaning in %s pays $%s and is %s miles from you.",
		home.City, price, candidate.DistanceMiles)

	payload := map[string]any{
		"appointmentId": appointment.ID,
		"homeId":        home.ID,
		"city":          home.City,
		"price":         price,
		"distanceMiles": candidate.DistanceMiles,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn("failed to encode notification payload, skipping cleaner",
			"cleanerID", cleaner.ID, "error", err)
		return false
	}

	expiresAt := utils.EndOfDay(appointment.Date)
	notification := &Notification{
		UserID:         cleaner.ID,
		Type:           NotificationLastMinuteUrgent,
		Title:          title,
		Body:           body,
		ActionRequired: true,
		Data:           data,
		ExpiresAt:      &expiresAt,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Warn("failed to store urgent notification, skipping cleaner",
			"cleanerID", cleaner.ID, "appointmentID", appointment.ID, "error", err)
		return false
	}

	if cleaner.HasPushOptIn() {
		pushCtx, cancel := context.WithTimeout(ctx, dispatchChannelTimeout)
		if err := s.push.SendPush(pushCtx, *cleaner.PushToken, title, body, payload); err != nil {
			log.Warn("failed to send urgent push", "cleanerID", cleaner.ID, "error", err)
		}
		cancel()
	}

	if cleaner.HasEmailOptIn() {
		emailCtx, cancel := context.WithTimeout(ctx, dispatchChannelTimeout)
		err := s.email.SendEmail(emailCtx, EmailTemplateUrgentJob, *cleaner.Email, title, payload)
		if err != nil {
			log.Warn("failed to send urgent email", "cleanerID", cleaner.ID, "error", err)
		}
		cancel()
	}

	if io != nil {
		if err := io.EmitToUser(ctx, cleaner.ID, string(events.URGENT_JOB), payload); err != nil {
			log.Warn("failed to emit urgent job event", "cleanerID", cleaner.ID, "error", err)
		} else if unread, err := s.notificationRepo.CountUnread(ctx, cleaner.ID); err != nil {
			log.Warn("failed to count unread notifications", "cleanerID", cleaner.ID, "error", err)
		} else {
			err := io.EmitToUser(ctx, cleaner.ID, string(events.UNREAD_COUNT), map[string]any{
				"count": unread,
			})
			if err != nil {
				log.Warn("failed to emit unread count", "cleanerID", cleaner.ID, "error", err)
			}
		}
	}

	return true
}

func (s *UrgentDispatchService) decodeHomeCoordinates(home *Home) (float64, float64, bool) {
	log := s.log.Function("decodeHomeCoordinates")

	lat, ok := s.decodeCoordinate(home.Latitude)
	if !ok {
		log.Warn("failed to decode home latitude", "homeID", home.ID)
		return 0, 0, false
	}

	lon, ok := s.decodeCoordinate(home.Longitude)
	if !ok {
		log.Warn("failed to decode home longitude", "homeID", home.ID)
		return 0, 0, false
	}

	return lat, lon, true
}

func (s *UrgentDispatchService) decodeCoordinate(ciphertext string) (float64, bool) {
	plaintext, err := s.codec.Decrypt(ciphertext)
	if err != nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(plaintext, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

func (s *UrgentDispatchService) markDispatched(ctx context.Context, appointmentID int) {
	if err := s.appointmentRepo.MarkDispatched(ctx, appointmentID, time.Now()); err != nil {
		s.log.Function("markDispatched").
			Warn("failed to stamp dispatch timestamp", "appointmentID", appointmentID, "error", err)
	}
}
