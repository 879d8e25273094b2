package jobs

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"

	"sinecarbon/internal/database"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/services"
)

// CatalogCacheRefreshJob reloads the recommendation catalog into valkey once a day.
type CatalogCacheRefreshJob struct {
	db          database.DB
	catalogRepo repositories.CatalogRepository
	log         logger.Logger
	schedule    services.Schedule
}

func NewCatalogCacheRefreshJob(
	db database.DB,
	catalogRepo repositories.CatalogRepository,
	schedule services.Schedule,
) *CatalogCacheRefreshJob {
	return &CatalogCacheRefreshJob{
		db:          db,
		catalogRepo: catalogRepo,
		log:         logger.New("catalogCacheRefreshJob"),
		schedule:    schedule,
	}
}

func (j *CatalogCacheRefreshJob) Name() string {
	return "CatalogCacheRefresh"
}

func (j *CatalogCacheRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	count, err := j.catalogRepo.RefreshCache(ctx, j.db.SQLWithContext(ctx))
	if err != nil {
		return log.Err("catalog cache refresh failed", err)
	}

	log.Info("Catalog cache refreshed", "cards", count)
	return nil
}

func (j *CatalogCacheRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
