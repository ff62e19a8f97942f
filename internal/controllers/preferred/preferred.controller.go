package preferredController

import (
	"context"

	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/services"
)

// PreferredController exposes the explicit management path for preferred
// cleaners, separate from the review-driven toggle.
type PreferredController struct {
	homeRepo         repositories.HomeRepository
	userRepo         repositories.UserRepository
	preferredService *services.PreferredCleanerService
	db               database.DB
	Config           config.Config
	log              logger.Logger
}

type PreferredControllerInterface interface {
	SetPreferred(ctx context.Context, owner *User, homeID, cleanerID int) error
	UnsetPreferred(ctx context.Context, owner *User, homeID, cleanerID int) error
	IsPreferred(ctx context.Context, homeID, cleanerID int) (bool, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) PreferredControllerInterface {
	return &PreferredController{
		homeRepo:         repos.Home,
		userRepo:         repos.User,
		preferredService: services.Preferred,
		db:               db,
		Config:           config,
		log:              logger.New("preferredController"),
	}
}

func (pc *PreferredController) SetPreferred(
	ctx context.Context,
	owner *User,
	homeID, cleanerID int,
) error {
	log := pc.log.Function("SetPreferred")

	if err := pc.authorizeOwner(ctx, owner, homeID); err != nil {
		return err
	}

	cleaner, err := pc.userRepo.GetByID(ctx, cleanerID)
	if err != nil {
		return log.Err("failed to load cleaner", err, "cleanerID", cleanerID)
	}
	if cleaner.Type != UserTypeCleaner {
		return log.ErrMsg("only cleaners can be marked preferred")
	}

	return pc.preferredService.SetPreferred(ctx, homeID, cleanerID, PreferredSetByManual)
}

func (pc *PreferredController) UnsetPreferred(
	ctx context.Context,
	owner *User,
	homeID, cleanerID int,
) error {
	if err := pc.authorizeOwner(ctx, owner, homeID); err != nil {
		return err
	}

	return pc.preferredService.UnsetPreferred(ctx, homeID, cleanerID)
}

func (pc *PreferredController) IsPreferred(
	ctx context.Context,
	homeID, cleanerID int,
) (bool, error) {
	return pc.preferredService.IsPreferred(ctx, homeID, cleanerID)
}

func (pc *PreferredController) authorizeOwner(ctx context.Context, owner *User, homeID int) error {
	log := pc.log.Function("authorizeOwner")

	home, err := pc.homeRepo.GetByID(ctx, homeID)
	if err != nil {
		return log.Err("failed to load home", err, "homeID", homeID)
	}
	if home.OwnerID != owner.ID {
		return log.ErrMsg("only the home's owner may manage preferred cleaners")
	}

	return nil
}
