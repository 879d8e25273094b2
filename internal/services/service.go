package services

import (
	"sinecarbon/config"
	"sinecarbon/internal/database"
	"sinecarbon/internal/events"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/utils"
)

type Service struct {
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	RuleOverlay    *RuleOverlayService
	Ranking        *RankingService
	Streak         *StreakService
	ActionRecorder *ActionRecorderService
	BucketList     *BucketListService
}

func New(
	db database.DB,
	config config.Config,
	eventBus *events.EventBus,
	repos repositories.Repository,
) (Service, error) {
	clock := utils.NewDayClock(config.EngineLocation())

	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService(clock.Location())
	ruleOverlayService := NewRuleOverlayService(
		db,
		repos,
		transactionService,
		eventBus,
		config.RulesCacheTTL(),
	)
	if err := ruleOverlayService.SubscribeToUpdates(); err != nil {
		return Service{}, err
	}

	rankingService := NewRankingService(db, repos, ruleOverlayService, clock)
	streakService := NewStreakService(repos, clock)
	actionRecorderService := NewActionRecorderService(
		repos,
		transactionService,
		streakService,
		clock,
		config.BonusChance,
	)
	bucketListService := NewBucketListService(db, repos)

	return Service{
		Transaction:    transactionService,
		Scheduler:      schedulerService,
		RuleOverlay:    ruleOverlayService,
		Ranking:        rankingService,
		Streak:         streakService,
		ActionRecorder: actionRecorderService,
		BucketList:     bucketListService,
	}, nil
}
