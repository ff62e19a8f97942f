package repositories

import (
	"context"
	"time"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
)

const (
	HOME_CACHE_EXPIRY = 24 * time.Hour
	HOME_CACHE_PREFIX = "home:"
)

type HomeRepository interface {
	GetByID(ctx context.Context, id int) (*Home, error)
	Update(ctx context.Context, home *Home) error
}

type homeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewHomeRepository(db database.DB) HomeRepository {
	return &homeRepository{
		db:  db,
		log: logger.New("homeRepository"),
	}
}

func (r *homeRepository) GetByID(ctx context.Context, id int) (*Home, error) {
	log := r.log.Function("GetByID")

	var home Home
	if found, err := r.getCacheByID(ctx, id, &home); err == nil && found {
		return &home, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&home, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get home by id", err, "id", id)
	}

	if err := r.addHomeToCache(ctx, &home); err != nil {
		log.Warn("failed to add home to cache", "homeID", id, "error", err)
	}

	return &home, nil
}

func (r *homeRepository) Update(ctx context.Context, home *Home) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(home).Error; err != nil {
		return log.Err("failed to update home", err, "homeID", home.ID)
	}

	if err := r.clearHomeCache(ctx, home.ID); err != nil {
		log.Warn("failed to clear home cache after update", "homeID", home.ID, "error", err)
	}

	return nil
}

func (r *homeRepository) getCacheByID(ctx context.Context, homeID int, home *Home) (bool, error) {
	return database.NewCacheBuilder(r.db.Cache.Home, homeID).
		WithPrefix(HOME_CACHE_PREFIX).
		WithContext(ctx).
		Get(home)
}

func (r *homeRepository) addHomeToCache(ctx context.Context, home *Home) error {
	return database.NewCacheBuilder(r.db.Cache.Home, home.ID).
		WithPrefix(HOME_CACHE_PREFIX).
		WithStruct(home).
		WithTTL(HOME_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}

func (r *homeRepository) clearHomeCache(ctx context.Context, homeID int) error {
	return database.NewCacheBuilder(r.db.Cache.Home, homeID).
		WithPrefix(HOME_CACHE_PREFIX).
		WithContext(ctx).
		Delete()
}
