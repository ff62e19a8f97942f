package app

import (
	"context"

	"brightnest/config"
	"brightnest/internal/controllers"
	"brightnest/internal/database"
	"brightnest/internal/events"
	"brightnest/internal/handlers/middleware"
	"brightnest/internal/jobs"
	"brightnest/internal/logger"
	"brightnest/internal/repositories"
	"brightnest/internal/services"
	"brightnest/internal/websockets"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(db, eventBus, service.Auth, repos, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)
	controllers := controllers.New(service, repos, eventBus, config, db)

	if config.SchedulerEnabled {
		sweepJob := jobs.NewLastMinuteSweepJob(repos, service.UrgentDispatch, websocket)
		if err := service.Scheduler.AddJob(sweepJob); err != nil {
			return &App{}, log.Err("failed to register last-minute sweep job", err)
		}
		log.Info("Registered last-minute sweep job with scheduler")

		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Auth,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Codec,
		a.Services.Pricing,
		a.Services.RateLimiter,
		a.Services.NearbyFinder,
		a.Services.Preferred,
		a.Services.UrgentDispatch,
		a.Services.Email,
		a.Services.Push,
		a.Controllers.Booking,
		a.Controllers.Review,
		a.Controllers.Dispatch,
		a.Controllers.Preferred,
		a.Repos.User,
		a.Repos.Home,
		a.Repos.PreferredCleaner,
		a.Repos.Appointment,
		a.Repos.PendingRequest,
		a.Repos.Notification,
		a.Repos.Review,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
