package app

import (
	"context"
	"voxadmin/config"
	"voxadmin/internal/controllers"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	"voxadmin/internal/handlers/middleware"
	"voxadmin/internal/jobs"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	cfg, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Build(cfg, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Er("failed to close database", closeErr)
		}
		return &App{}, err
	}

	return app, nil
}

// Build wires repositories, services, controllers and jobs around an open database.
func Build(cfg config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)
	svc := services.New(db, repos, cfg, eventBus)

	if err := jobs.RegisterAllJobs(svc.Scheduler, cfg, svc, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      cfg,
		EventBus:    eventBus,
		Repos:       repos,
		Services:    svc,
		Middleware:  middleware.New(db, cfg, repos),
		Controllers: controllers.New(svc, repos, eventBus, cfg, db),
	}

	if err := app.validate(); err != nil {
		if closeErr := eventBus.Close(); closeErr != nil {
			log.Er("failed to close event bus", closeErr)
		}
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
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Scrubber,
		a.Services.Preference,
		a.Services.Bootstrap,
		a.Services.Token,
		a.Repos.User,
		a.Repos.ModelConfig,
		a.Repos.UserModelPreference,
		a.Controllers.User,
		a.Controllers.ModelConfig,
		a.Controllers.Admin,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil && a.Services.Scheduler.IsRunning() {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
