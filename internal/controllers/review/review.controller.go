package reviewController

import (
	"context"

	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/services"
)

type ReviewRequest struct {
	ReviewType     ReviewType `json:"reviewType"`
	CleanerID      int        `json:"cleanerId"`
	HomeID         *int       `json:"homeId,omitempty"`
	Rating         int        `json:"rating"`
	Comment        string     `json:"comment"`
	SetAsPreferred *bool      `json:"setAsPreferred,omitempty"`
}

type ReviewController struct {
	reviewRepo       repositories.ReviewRepository
	homeRepo         repositories.HomeRepository
	preferredService *services.PreferredCleanerService
	db               database.DB
	Config           config.Config
	log              logger.Logger
}

type ReviewControllerInterface interface {
	SubmitReview(ctx context.Context, reviewer *User, request ReviewRequest) (*Review, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ReviewControllerInterface {
	return &ReviewController{
		reviewRepo:       repos.Review,
		homeRepo:         repos.Home,
		preferredService: services.Preferred,
		db:               db,
		Config:           config,
		log:              logger.New("reviewController"),
	}
}

// SubmitReview stores the review and, when the review qualifies, toggles the
// cleaner's preferred status for the home. The toggle guard lives here, not in
// the registry: only homeowner-to-cleaner reviews carrying the flag and a home
// may mutate preferred links, and the review itself stands even if the toggle
// fails afterward.
func (rc *ReviewController) SubmitReview(
	ctx context.Context,
	reviewer *User,
	request ReviewRequest,
) (*Review, error) {
	log := rc.log.Function("SubmitReview")

	if request.Rating < 1 || request.Rating > 5 {
		return nil, log.ErrMsg("rating must be between 1 and 5")
	}

	review := &Review{
		ReviewType:     request.ReviewType,
		ReviewerID:     reviewer.ID,
		CleanerID:      request.CleanerID,
		HomeID:         request.HomeID,
		Rating:         request.Rating,
		Comment:        request.Comment,
		SetAsPreferred: request.SetAsPreferred,
	}

	if review.CanTogglePreferred() {
		home, err := rc.homeRepo.GetByID(ctx, *review.HomeID)
		if err != nil {
			return nil, log.Err("failed to load home for review", err, "homeID", *review.HomeID)
		}
		if home.OwnerID != reviewer.ID {
			return nil, log.ErrMsg("only the home's owner may set a preferred cleaner")
		}
	}

	if err := rc.reviewRepo.Create(ctx, review); err != nil {
		return nil, log.Err("failed to store review", err,
			"reviewerID", reviewer.ID, "cleanerID", request.CleanerID)
	}

	rc.applyPreferredToggle(ctx, review)

	return review, nil
}

func (rc *ReviewController) applyPreferredToggle(ctx context.Context, review *Review) {
	log := rc.log.Function("applyPreferredToggle")

	if !review.CanTogglePreferred() {
		return
	}

	if *review.SetAsPreferred {
		err := rc.preferredService.SetPreferred(ctx, *review.HomeID, review.CleanerID, PreferredSetByReview)
		if err != nil {
			log.Warn("failed to set preferred cleaner from review",
				"homeID", *review.HomeID, "cleanerID", review.CleanerID, "error", err)
		}
		return
	}

	if err := rc.preferredService.UnsetPreferred(ctx, *review.HomeID, review.CleanerID); err != nil {
		log.Warn("failed to unset preferred cleaner from review",
			"homeID", *review.HomeID, "cleanerID", review.CleanerID, "error", err)
	}
}
