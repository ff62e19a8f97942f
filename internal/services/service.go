package services

import (
	"brightnest/config"
	"brightnest/internal/database"
	"brightnest/internal/events"
	"brightnest/internal/repositories"
)

type Service struct {
	Auth           *AuthService
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Codec          *CodecService
	Pricing        *PricingService
	RateLimiter    *RateLimiterService
	NearbyFinder   *NearbyFinderService
	Preferred      *PreferredCleanerService
	UrgentDispatch *UrgentDispatchService
	Email          EmailSender
	Push           PushSender
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	codecService, err := NewCodecService(config)
	if err != nil {
		return Service{}, err
	}

	authService, err := NewAuthService(config)
	if err != nil {
		return Service{}, err
	}

	emailSender := NewDemoRedirectEmailSender(NewEmailSender(eventBus), config)
	pushSender := NewPushSender(eventBus)

	schedulerService := NewSchedulerService()
	pricingService := NewPricingService(db, config)
	rateLimiterService := NewRateLimiterService(db.Cache.RateLimit)
	nearbyFinderService := NewNearbyFinderService(repos)
	preferredService := NewPreferredCleanerService(repos, emailSender, pushSender)
	urgentDispatchService := NewUrgentDispatchService(
		repos,
		nearbyFinderService,
		pricingService,
		codecService,
		emailSender,
		pushSender,
	)

	return Service{
		Auth:           authService,
		Transaction:    transactionService,
		Scheduler:      schedulerService,
		Codec:          codecService,
		Pricing:        pricingService,
		RateLimiter:    rateLimiterService,
		NearbyFinder:   nearbyFinderService,
		Preferred:      preferredService,
		UrgentDispatch: urgentDispatchService,
		Email:          emailSender,
		Push:           pushSender,
	}, nil
}
