package repositories

import (
	"context"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// FindDispatchCandidates returns active cleaners that have a service-area
	// location on file. Filtering happens in SQL, not in memory.
	FindDispatchCandidates(ctx context.Context) ([]User, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, log.Err("failed to get user by email", err, "email", email)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	return nil
}

func (r *userRepository) FindDispatchCandidates(ctx context.Context) ([]User, error) {
	log := r.log.Function("FindDispatchCandidates")

	var cleaners []User
	err := r.db.SQLWithContext(ctx).
		Where("type = ?", UserTypeCleaner).
		Where("is_frozen = false").
		Where("service_area_latitude IS NOT NULL").
		Where("service_area_longitude IS NOT NULL").
		Find(&cleaners).Error
	if err != nil {
		return nil, log.Err("failed to query dispatch candidates", err)
	}

	return cleaners, nil
}
