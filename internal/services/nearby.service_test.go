package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	. "brightnest/internal/models"
	"brightnest/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtrT(f float64) *float64 { return &f }

// cleanerAt builds a cleaner offset north of the fixture home by latitude
// degrees. One latitude degree is roughly 69.1 miles, so 0.05 degrees is
// about 3.5 miles.
func cleanerAt(id int, latOffset float64, radiusMiles *float64) User {
	lat := 40.0 + latOffset
	return User{
		BaseModel:              BaseModel{ID: id},
		Type:                   UserTypeCleaner,
		ServiceAreaLatitude:    strPtrT(strconv.FormatFloat(lat, 'f', -1, 64)),
		ServiceAreaLongitude:   strPtrT("-75.0"),
		ServiceAreaRadiusMiles: radiusMiles,
	}
}

func newNearbyFixture(cleaners ...User) (*NearbyFinderService, *fakeUserRepo) {
	userRepo := &fakeUserRepo{users: map[int]*User{}, candidates: cleaners}
	service := NewNearbyFinderService(repositories.Repository{User: userRepo})
	return service, userRepo
}

func TestNearbyFinderService_DualRadiusAdmission(t *testing.T) {
	ctx := context.Background()

	t.Run("inside both radii is admitted", func(t *testing.T) {
		service, _ := newNearbyFixture(cleanerAt(1, 0.05, floatPtrT(10))) // ~3.5mi

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 1, found[0].Cleaner.ID)
		assert.InDelta(t, 3.45*MilesToMeters, found[0].DistanceMeters, 100)
	})

	t.Run("outside the search radius is excluded", func(t *testing.T) {
		service, _ := newNearbyFixture(cleanerAt(1, 0.50, floatPtrT(100))) // ~34.5mi

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("outside the cleaner's own service radius is excluded", func(t *testing.T) {
		service, _ := newNearbyFixture(cleanerAt(1, 0.10, floatPtrT(5))) // ~6.9mi, serves 5mi

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("missing service radius falls back to the default", func(t *testing.T) {
		nearEnough := cleanerAt(1, 0.40, nil)            // ~27.6mi, inside default 30
		tooFar := cleanerAt(2, 0.40, floatPtrT(-1))      // non-positive radius also defaults
		justOutside := cleanerAt(3, 0.47, floatPtrT(50)) // ~32.5mi, outside default is moot here

		service, _ := newNearbyFixture(nearEnough, tooFar, justOutside)

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 40, FindOptions{})
		require.NoError(t, err)
		require.Len(t, found, 3)
	})

	t.Run("default service radius still excludes when exceeded", func(t *testing.T) {
		service, _ := newNearbyFixture(cleanerAt(1, 0.47, nil)) // ~32.5mi > default 30

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 40, FindOptions{})
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestNearbyFinderService_SkipsBadCandidateData(t *testing.T) {
	ctx := context.Background()

	noCoords := User{BaseModel: BaseModel{ID: 1}, Type: UserTypeCleaner}
	garbage := User{
		BaseModel:            BaseModel{ID: 2},
		Type:                 UserTypeCleaner,
		ServiceAreaLatitude:  strPtrT("not-a-number"),
		ServiceAreaLongitude: strPtrT("-75.0"),
	}
	outOfRange := User{
		BaseModel:            BaseModel{ID: 3},
		Type:                 UserTypeCleaner,
		ServiceAreaLatitude:  strPtrT("95.0"),
		ServiceAreaLongitude: strPtrT("-75.0"),
	}
	good := cleanerAt(4, 0.01, nil)

	service, _ := newNearbyFixture(noCoords, garbage, outOfRange, good)

	found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 4, found[0].Cleaner.ID)
}

func TestNearbyFinderService_Ranking(t *testing.T) {
	ctx := context.Background()

	verified := cleanerAt(1, 0.10, nil) // ~6.9mi
	verified.IsBusinessOwner = true
	verified.BusinessVerificationStatus = strPtrT(BusinessVerified)

	near := cleanerAt(2, 0.02, nil)   // ~1.4mi
	middle := cleanerAt(3, 0.05, nil) // ~3.5mi

	t.Run("verified businesses rank first when prioritized", func(t *testing.T) {
		service, _ := newNearbyFixture(near, verified, middle)

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{PrioritizeVerified: true})
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, []int{1, 2, 3}, candidateIDs(found))
		assert.True(t, found[0].IsVerifiedBusiness)
	})

	t.Run("pure distance order without prioritization", func(t *testing.T) {
		service, _ := newNearbyFixture(verified, near, middle)

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3, 1}, candidateIDs(found))
	})

	t.Run("equal distances keep repository order", func(t *testing.T) {
		twinA := cleanerAt(10, 0.05, nil)
		twinB := cleanerAt(11, 0.05, nil)
		service, _ := newNearbyFixture(twinA, twinB)

		found, err := service.FindNearbyCleaners(ctx, 40.0, -75.0, 25, FindOptions{PrioritizeVerified: true})
		require.NoError(t, err)
		assert.Equal(t, []int{10, 11}, candidateIDs(found))
	})
}

func TestNearbyFinderService_DistanceFormatting(t *testing.T) {
	// ~5 miles north of the home.
	service, _ := newNearbyFixture(cleanerAt(1, 0.0723, nil))

	found, err := service.FindNearbyCleaners(context.Background(), 40.0, -75.0, 25, FindOptions{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "5.0", found[0].DistanceMiles)
}

func TestNearbyFinderService_RepositoryErrorPropagates(t *testing.T) {
	service, userRepo := newNearbyFixture()
	userRepo.err = errors.New("connection refused")

	_, err := service.FindNearbyCleaners(context.Background(), 40.0, -75.0, 25, FindOptions{})
	assert.Error(t, err)
}

func candidateIDs(candidates []CandidateCleaner) []int {
	ids := make([]int, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.Cleaner.ID)
	}
	return ids
}
