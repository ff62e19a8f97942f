package services

import (
	"context"
	"math"
	"sort"
	"strconv"

	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"
)

// DefaultServiceRadiusMiles applies when a cleaner has no usable service
// radius on file.
const DefaultServiceRadiusMiles = 30.0

// CandidateCleaner is a ranked dispatch candidate.
type CandidateCleaner struct {
	Cleaner            User    `json:"cleaner"`
	DistanceMeters     float64 `json:"distanceMeters"`
	DistanceMiles      string  `json:"distanceMiles"`
	IsVerifiedBusiness bool    `json:"isVerifiedBusiness"`
}

type FindOptions struct {
	// PrioritizeVerified sorts verified businesses strictly ahead of everyone
	// else; within each group candidates rank by ascending distance.
	PrioritizeVerified bool
}

type NearbyFinderService struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

func NewNearbyFinderService(repos repositories.Repository) *NearbyFinderService {
	return &NearbyFinderService{
		userRepo: repos.User,
		log:      logger.New("nearbyFinderService"),
	}
}

// FindNearbyCleaners returns cleaners eligible for a property at the given
// coordinates, ranked for dispatch. A cleaner is admitted only when it sits
// inside the search radius AND inside its own service radius; both checks stay
// separate on purpose, the two radii are business concepts that may diverge.
//
// Bad candidate data (unparseable coordinates, undeterminable distance) skips
// the candidate and never errors; an empty result is a valid outcome. Only
// repository failures propagate.
func (s *NearbyFinderService) FindNearbyCleaners(
	ctx context.Context,
	homeLat, homeLon float64,
	radiusMiles float64,
	opts FindOptions,
) ([]CandidateCleaner, error) {
	log := s.log.Function("FindNearbyCleaners")

	cleaners, err := s.userRepo.FindDispatchCandidates(ctx)
	if err != nil {
		return nil, log.Err("failed to load dispatch candidates", err)
	}

	searchRadiusMeters := radiusMiles * MilesToMeters

	candidates := make([]CandidateCleaner, 0, len(cleaners))
	for _, cleaner := range cleaners {
		cleanerLat, cleanerLon, ok := parseServiceArea(&cleaner)
		if !ok {
			log.Debug("skipping cleaner with unparseable coordinates", "cleanerID", cleaner.ID)
			continue
		}

		distanceMeters, ok := DistanceMeters(homeLat, homeLon, cleanerLat, cleanerLon)
		if !ok {
			log.Debug("skipping cleaner with undeterminable distance", "cleanerID", cleaner.ID)
			continue
		}

		if !withinSearchRadius(distanceMeters, searchRadiusMeters) {
			continue
		}
		if !withinServiceRadius(distanceMeters, &cleaner) {
			continue
		}

		candidates = append(candidates, CandidateCleaner{
			Cleaner:            cleaner,
			DistanceMeters:     distanceMeters,
			DistanceMiles:      FormatMiles(distanceMeters),
			IsVerifiedBusiness: cleaner.IsVerifiedBusiness(),
		})
	}

	// Stable sort keeps insertion order on equal distance, so identical
	// inputs always produce identical rankings.
	sort.SliceStable(candidates, func(i, j int) bool {
		if opts.PrioritizeVerified && candidates[i].IsVerifiedBusiness != candidates[j].IsVerifiedBusiness {
			return candidates[i].IsVerifiedBusiness
		}
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})

	return candidates, nil
}

// parseServiceArea reads the cleaner's plain-text coordinates. These fields
// are deliberately stored unencrypted so this parse stays cheap.
func parseServiceArea(cleaner *User) (float64, float64, bool) {
	if cleaner.ServiceAreaLatitude == nil || cleaner.ServiceAreaLongitude == nil {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(*cleaner.ServiceAreaLatitude, 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return 0, 0, false
	}

	lon, err := strconv.ParseFloat(*cleaner.ServiceAreaLongitude, 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, 0, false
	}

	return lat, lon, true
}

func withinSearchRadius(distanceMeters, searchRadiusMeters float64) bool {
	return distanceMeters <= searchRadiusMeters
}

func withinServiceRadius(distanceMeters float64, cleaner *User) bool {
	radiusMiles := DefaultServiceRadiusMiles
	if cleaner.ServiceAreaRadiusMiles != nil && *cleaner.ServiceAreaRadiusMiles > 0 {
		radiusMiles = *cleaner.ServiceAreaRadiusMiles
	}
	return distanceMeters <= radiusMiles*MilesToMeters
}
