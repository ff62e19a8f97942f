package reviewController

import (
	"context"
	"errors"
	"testing"

	"brightnest/config"
	"brightnest/internal/database"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
	"brightnest/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("record not found")

type stubReviewRepo struct {
	created []*Review
}

func (s *stubReviewRepo) Create(_ context.Context, review *Review) error {
	s.created = append(s.created, review)
	return nil
}

func (s *stubReviewRepo) ListByCleaner(_ context.Context, cleanerID int) ([]Review, error) {
	var out []Review
	for _, review := range s.created {
		if review.CleanerID == cleanerID {
			out = append(out, *review)
		}
	}
	return out, nil
}

type stubHomeRepo struct {
	homes map[int]*Home
}

func (s *stubHomeRepo) GetByID(_ context.Context, id int) (*Home, error) {
	home, ok := s.homes[id]
	if !ok {
		return nil, errNotFound
	}
	return home, nil
}

func (s *stubHomeRepo) Update(_ context.Context, home *Home) error {
	s.homes[home.ID] = home
	return nil
}

type stubPreferredRepo struct {
	links map[[2]int]bool
}

func (s *stubPreferredRepo) Exists(_ context.Context, homeID, cleanerID int) (bool, error) {
	return s.links[[2]int{homeID, cleanerID}], nil
}

func (s *stubPreferredRepo) CreateIfAbsent(_ context.Context, link *HomePreferredCleaner) (bool, error) {
	key := [2]int{link.HomeID, link.CleanerID}
	if s.links[key] {
		return false, nil
	}
	s.links[key] = true
	return true, nil
}

func (s *stubPreferredRepo) Remove(_ context.Context, homeID, cleanerID int) error {
	delete(s.links, [2]int{homeID, cleanerID})
	return nil
}

type stubUserRepo struct {
	users map[int]*User
}

func (s *stubUserRepo) GetByID(_ context.Context, id int) (*User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*User, error) {
	return nil, errNotFound
}

func (s *stubUserRepo) Update(_ context.Context, user *User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) FindDispatchCandidates(_ context.Context) ([]User, error) {
	return nil, nil
}

type noopEmailSender struct{}

func (noopEmailSender) SendEmail(_ context.Context, _, _, _ string, _ map[string]any) error {
	return nil
}

type noopPushSender struct{}

func (noopPushSender) SendPush(_ context.Context, _, _, _ string, _ map[string]any) error {
	return nil
}

func boolPtrT(b bool) *bool { return &b }
func intPtrT(i int) *int    { return &i }

type reviewFixture struct {
	controller    ReviewControllerInterface
	reviewRepo    *stubReviewRepo
	preferredRepo *stubPreferredRepo
}

func newReviewFixture(homes ...*Home) *reviewFixture {
	reviewRepo := &stubReviewRepo{}
	preferredRepo := &stubPreferredRepo{links: make(map[[2]int]bool)}
	homeRepo := &stubHomeRepo{homes: make(map[int]*Home)}
	for _, home := range homes {
		homeRepo.homes[home.ID] = home
	}

	preferredService := services.NewPreferredCleanerService(
		repositories.Repository{
			PreferredCleaner: preferredRepo,
			Home:             homeRepo,
			User:             &stubUserRepo{users: map[int]*User{}},
		},
		noopEmailSender{},
		noopPushSender{},
	)

	controller := New(
		repositories.Repository{
			Review: reviewRepo,
			Home:   homeRepo,
		},
		services.Service{Preferred: preferredService},
		config.Config{},
		database.DB{},
	)

	return &reviewFixture{
		controller:    controller,
		reviewRepo:    reviewRepo,
		preferredRepo: preferredRepo,
	}
}

func TestReviewController_HomeownerReviewSetsPreferred(t *testing.T) {
	home := &Home{BaseModel: BaseModel{ID: 50}, OwnerID: 1, UsePreferredCleaners: true}
	owner := &User{BaseModel: BaseModel{ID: 1}, Type: UserTypeHomeowner}
	fixture := newReviewFixture(home)

	review, err := fixture.controller.SubmitReview(context.Background(), owner, ReviewRequest{
		ReviewType:     ReviewHomeownerToCleaner,
		CleanerID:      7,
		HomeID:         intPtrT(50),
		Rating:         5,
		Comment:        "Spotless every time",
		SetAsPreferred: boolPtrT(true),
	})
	require.NoError(t, err)

	assert.Len(t, fixture.reviewRepo.created, 1)
	assert.True(t, fixture.preferredRepo.links[[2]int{50, 7}])
	assert.Equal(t, ReviewHomeownerToCleaner, review.ReviewType)
}

func TestReviewController_HomeownerReviewUnsetsPreferred(t *testing.T) {
	home := &Home{BaseModel: BaseModel{ID: 50}, OwnerID: 1, UsePreferredCleaners: true}
	owner := &User{BaseModel: BaseModel{ID: 1}, Type: UserTypeHomeowner}
	fixture := newReviewFixture(home)
	fixture.preferredRepo.links[[2]int{50, 7}] = true

	_, err := fixture.controller.SubmitReview(context.Background(), owner, ReviewRequest{
		ReviewType:     ReviewHomeownerToCleaner,
		CleanerID:      7,
		HomeID:         intPtrT(50),
		Rating:         2,
		SetAsPreferred: boolPtrT(false),
	})
	require.NoError(t, err)

	assert.False(t, fixture.preferredRepo.links[[2]int{50, 7}])
}

func TestReviewController_WrongDirectionNeverTouchesRegistry(t *testing.T) {
	home := &Home{BaseModel: BaseModel{ID: 50}, OwnerID: 1, UsePreferredCleaners: true}
	cleaner := &User{BaseModel: BaseModel{ID: 7}, Type: UserTypeCleaner}
	fixture := newReviewFixture(home)

	// A cleaner reviewing a homeowner carries the flag, but the direction
	// disqualifies it from mutating preferred links.
	_, err := fixture.controller.SubmitReview(context.Background(), cleaner, ReviewRequest{
		ReviewType:     ReviewCleanerToHomeowner,
		CleanerID:      7,
		HomeID:         intPtrT(50),
		Rating:         4,
		SetAsPreferred: boolPtrT(true),
	})
	require.NoError(t, err)

	assert.Len(t, fixture.reviewRepo.created, 1, "the review itself still stands")
	assert.Empty(t, fixture.preferredRepo.links)
}

func TestReviewController_MissingHomeNeverTouchesRegistry(t *testing.T) {
	home := &Home{BaseModel: BaseModel{ID: 50}, OwnerID: 1, UsePreferredCleaners: true}
	owner := &User{BaseModel: BaseModel{ID: 1}, Type: UserTypeHomeowner}
	fixture := newReviewFixture(home)

	_, err := fixture.controller.SubmitReview(context.Background(), owner, ReviewRequest{
		ReviewType:     ReviewHomeownerToCleaner,
		CleanerID:      7,
		Rating:         5,
		SetAsPreferred: boolPtrT(true),
	})
	require.NoError(t, err)

	assert.Empty(t, fixture.preferredRepo.links)
}

func TestReviewController_NonOwnerCannotTogglePreferred(t *testing.T) {
	home := &Home{BaseModel: BaseModel{ID: 50}, OwnerID: 1, UsePreferredCleaners: true}
	stranger := &User{BaseModel: BaseModel{ID: 99}, Type: UserTypeHomeowner}
	fixture := newReviewFixture(home)

	_, err := fixture.controller.SubmitReview(context.Background(), stranger, ReviewRequest{
		ReviewType:     ReviewHomeownerToCleaner,
		CleanerID:      7,
		HomeID:         intPtrT(50),
		Rating:         5,
		SetAsPreferred: boolPtrT(true),
	})
	assert.Error(t, err)
	assert.Empty(t, fixture.reviewRepo.created)
	assert.Empty(t, fixture.preferredRepo.links)
}

func TestReviewController_RatingValidation(t *testing.T) {
	owner := &User{BaseModel: BaseModel{ID: 1}, Type: UserTypeHomeowner}
	fixture := newReviewFixture()

	for _, rating := range []int{0, 6, -1} {
		_, err := fixture.controller.SubmitReview(context.Background(), owner, ReviewRequest{
			ReviewType: ReviewHomeownerToCleaner,
			CleanerID:  7,
			Rating:     rating,
		})
		assert.Error(t, err)
	}
}
