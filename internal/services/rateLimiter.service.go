package services

import (
	"context"
	"fmt"
	"time"

	"brightnest/internal/logger"

	"github.com/valkey-io/valkey-go"
)

const (
	RATE_LIMIT_KEY_PATTERN = "ratelimit:%s:%d" // action, userID

	DISPATCH_TRIGGER_ACTION = "dispatch_trigger"
	DISPATCH_TRIGGER_LIMIT  = 3
	DISPATCH_TRIGGER_WINDOW = 10 * time.Minute
)

// RateLimiterService is a fixed-window counter keyed by (action, userID),
// backed by valkey so the limit holds across instances.
type RateLimiterService struct {
	log   logger.Logger
	cache valkey.Client
}

func NewRateLimiterService(cache valkey.Client) *RateLimiterService {
	return &RateLimiterService{
		log:   logger.New("rateLimiterService"),
		cache: cache,
	}
}

// Allow increments the window counter and reports whether the call is within
// limit. The first hit in a window sets the expiry.
func (r *RateLimiterService) Allow(
	ctx context.Context,
	action string,
	userID int,
	limit int64,
	window time.Duration,
) (bool, error) {
	log := r.log.Function("Allow")

	key := fmt.Sprintf(RATE_LIMIT_KEY_PATTERN, action, userID)

	count, err := r.cache.Do(ctx, r.cache.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return false, log.Err("failed to increment rate limit counter", err,
			"action", action, "userID", userID)
	}

	if count == 1 {
		err = r.cache.Do(ctx,
			r.cache.B().Expire().Key(key).Seconds(int64(window.Seconds())).Build(),
		).Error()
		if err != nil {
			log.Warn("failed to set rate limit window expiry",
				"action", action, "userID", userID, "error", err)
		}
	}

	if count > limit {
		log.Info("rate limited", "action", action, "userID", userID, "count", count)
		return false, nil
	}

	return true, nil
}

// AllowDispatchTrigger applies the manual last-minute dispatch limits.
func (r *RateLimiterService) AllowDispatchTrigger(ctx context.Context, userID int) (bool, error) {
	return r.Allow(ctx, DISPATCH_TRIGGER_ACTION, userID, DISPATCH_TRIGGER_LIMIT, DISPATCH_TRIGGER_WINDOW)
}
