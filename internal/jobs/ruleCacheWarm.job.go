package jobs

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"

	"sinecarbon/internal/services"
)

type RuleCacheWarmJob struct {
	ruleOverlay *services.RuleOverlayService
	log         logger.Logger
	schedule    services.Schedule
}

func NewRuleCacheWarmJob(
	ruleOverlay *services.RuleOverlayService,
	schedule services.Schedule,
) *RuleCacheWarmJob {
	return &RuleCacheWarmJob{
		ruleOverlay: ruleOverlay,
		log:         logger.New("ruleCacheWarmJob"),
		schedule:    schedule,
	}
}

func (j *RuleCacheWarmJob) Name() string {
	return "RuleCacheWarm"
}

func (j *RuleCacheWarmJob) Execute(ctx context.Context) error {
	if err := j.ruleOverlay.Warm(ctx); err != nil {
		return j.log.Function("Execute").Err("rule cache warm-up failed", err)
	}
	return nil
}

func (j *RuleCacheWarmJob) Schedule() services.Schedule {
	return j.schedule
}
