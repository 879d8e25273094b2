package jobs

import (
	logger "github.com/Bparsons0904/goLogger"

	"sinecarbon/config"
	"sinecarbon/internal/database"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/services"
)

func RegisterAllJobs(
	config config.Config,
	db database.DB,
	service services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	catalogJob := NewCatalogCacheRefreshJob(db, repos.Catalog, services.Daily)
	if err := service.Scheduler.AddJob(catalogJob); err != nil {
		return log.Err("failed to register catalog cache refresh job", err)
	}

	ruleJob := NewRuleCacheWarmJob(service.RuleOverlay, services.EveryMinute)
	if err := service.Scheduler.AddJob(ruleJob); err != nil {
		return log.Err("failed to register rule cache warm job", err)
	}

	log.Info("Jobs registered", "count", service.Scheduler.GetJobCount())
	return nil
}
