package app

import (
	"context"

	"sinecarbon/config"
	"sinecarbon/internal/controllers"
	"sinecarbon/internal/database"
	"sinecarbon/internal/events"
	"sinecarbon/internal/handlers/middleware"
	"sinecarbon/internal/jobs"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database     database.DB
	Middleware   middleware.Middleware
	EventBus     *events.EventBus
	Config       config.Config
	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	if err := jobs.RegisterAllJobs(config, db, service, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:     db,
		Config:       config,
		EventBus:     eventBus,
		Services:     service,
		Repositories: repos,
		Middleware:   middleware.New(db, eventBus, config, repos),
		Controllers:  controllers.New(service),
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
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.RuleOverlay,
		a.Services.Ranking,
		a.Services.Streak,
		a.Services.ActionRecorder,
		a.Services.BucketList,
		a.Repositories.User,
		a.Repositories.Catalog,
		a.Controllers.Recommendation,
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
