package services

import (
	"context"

	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/logger"
)

const (
	PRICING_CONFIG_CACHE_KEY = "pricing:config"

	// DEFAULT_DISPATCH_RADIUS_MILES is the last fallback when neither the
	// business config blob nor the env config supplies a radius.
	DEFAULT_DISPATCH_RADIUS_MILES = 25.0
)

// PricingConfig is the business configuration blob maintained by the admin
// tooling. It may be partial; consumers fall back field by field.
type PricingConfig struct {
	LastMinute struct {
		NotificationRadiusMiles float64 `json:"notificationRadiusMiles"`
	} `json:"lastMinute"`
}

type PricingService struct {
	db     database.DB
	config config.Config
	log    logger.Logger
}

func NewPricingService(db database.DB, config config.Config) *PricingService {
	return &PricingService{
		db:     db,
		config: config,
		log:    logger.New("pricingService"),
	}
}

// LastMinuteRadiusMiles resolves the dispatch search radius. A missing or
// partial pricing blob is expected, not an error.
func (s *PricingService) LastMinuteRadiusMiles(ctx context.Context) float64 {
	log := s.log.Function("LastMinuteRadiusMiles")

	var pricing PricingConfig
	found, err := database.NewCacheBuilder(s.db.Cache.General, PRICING_CONFIG_CACHE_KEY).
		WithContext(ctx).
		Get(&pricing)
	if err != nil {
		log.Warn("failed to load pricing config, using fallback radius", "error", err)
		return resolveDispatchRadius(nil, s.config.DispatchRadiusMiles)
	}
	if !found {
		return resolveDispatchRadius(nil, s.config.DispatchRadiusMiles)
	}

	return resolveDispatchRadius(&pricing, s.config.DispatchRadiusMiles)
}

func resolveDispatchRadius(pricing *PricingConfig, configured float64) float64 {
	if pricing != nil && pricing.LastMinute.NotificationRadiusMiles > 0 {
		return pricing.LastMinute.NotificationRadiusMiles
	}
	if configured > 0 {
		return configured
	}
	return DEFAULT_DISPATCH_RADIUS_MILES
}
