package services

import (
	"context"
	"time"

	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
)

// PreferredCleanerService is the registry of per-home preferred cleaners. The
// stored link is authoritative; the email and push that announce it are
// advisory and never fail the write.
type PreferredCleanerService struct {
	preferredRepo repositories.PreferredCleanerRepository
	homeRepo      repositories.HomeRepository
	userRepo      repositories.UserRepository
	email         EmailSender
	push          PushSender
	log           logger.Logger
}

func NewPreferredCleanerService(
	repos repositories.Repository,
	email EmailSender,
	push PushSender,
) *PreferredCleanerService {
	return &PreferredCleanerService{
		preferredRepo: repos.PreferredCleaner,
		homeRepo:      repos.Home,
		userRepo:      repos.User,
		email:         email,
		push:          push,
		log:           logger.New("preferredCleanerService"),
	}
}

// IsPreferred reports whether an active link exists for the pair. A home that
// has turned the feature off always reports false, even when link rows remain.
func (s *PreferredCleanerService) IsPreferred(ctx context.Context, homeID, cleanerID int) (bool, error) {
	log := s.log.Function("IsPreferred")

	home, err := s.homeRepo.GetByID(ctx, homeID)
	if err != nil {
		return false, log.Err("failed to load home", err, "homeID", homeID)
	}

	if !home.UsePreferredCleaners {
		return false, nil
	}

	return s.preferredRepo.Exists(ctx, homeID, cleanerID)
}

// SetPreferred creates the link for the pair. Calling it again for an existing
// pair is a no-op and fires no notifications.
func (s *PreferredCleanerService) SetPreferred(
	ctx context.Context,
	homeID, cleanerID int,
	setBy PreferredSetBy,
) error {
	log := s.log.Function("SetPreferred")

	created, err := s.preferredRepo.CreateIfAbsent(ctx, &HomePreferredCleaner{
		HomeID:    homeID,
		CleanerID: cleanerID,
		SetAt:     time.Now(),
		SetBy:     setBy,
	})
	if err != nil {
		return log.Err("failed to create preferred link", err,
			"homeID", homeID, "cleanerID", cleanerID)
	}

	if !created {
		log.Info("preferred link already exists, skipping notifications",
			"homeID", homeID, "cleanerID", cleanerID)
		return nil
	}

	s.notifyCleanerPreferred(ctx, homeID, cleanerID)

	return nil
}

// UnsetPreferred removes the link; removing a missing link is not an error.
func (s *PreferredCleanerService) UnsetPreferred(ctx context.Context, homeID, cleanerID int) error {
	log := s.log.Function("UnsetPreferred")

	if err := s.preferredRepo.Remove(ctx, homeID, cleanerID); err != nil {
		return log.Err("failed to remove preferred link", err,
			"homeID", homeID, "cleanerID", cleanerID)
	}

	return nil
}

// notifyCleanerPreferred fires the best-effort congratulation email and push.
// Any failure here is logged and swallowed: the link row has already been
// written and that write is what callers rely on.
func (s *PreferredCleanerService) notifyCleanerPreferred(ctx context.Context, homeID, cleanerID int) {
	log := s.log.Function("notifyCleanerPreferred")

	cleaner, err := s.userRepo.GetByID(ctx, cleanerID)
	if err != nil {
		log.Warn("failed to load cleaner for notification",
			"cleanerID", cleanerID, "error", err)
		return
	}

	if cleaner.Email != nil && *cleaner.Email != "" {
		err := s.email.SendEmail(
			ctx,
			EmailTemplatePreferredCleaner,
			*cleaner.Email,
			"You've been added as a preferred cleaner",
			map[string]any{
				"cleanerName": cleaner.FullName(),
				"homeId":      homeID,
			},
		)
		if err != nil {
			log.Warn("failed to send preferred cleaner email",
				"cleanerID", cleanerID, "error", err)
		}
	}

	if cleaner.HasPushOptIn() {
		err := s.push.SendPush(
			ctx,
			*cleaner.PushToken,
			"You're a preferred cleaner!",
			"A homeowner added you as a preferred cleaner. You can now book their jobs directly.",
			map[string]any{"homeId": homeID},
		)
		if err != nil {
			log.Warn("failed to send preferred cleaner push",
				"cleanerID", cleanerID, "error", err)
		}
	}
}
