package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"

	"sinecarbon/internal/database"
	"sinecarbon/internal/events"
	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
)

// RuleOverlayService serves the ranking policy from an in-process cache that expires after
// ttl and is dropped immediately whenever the policy is replaced.
type RuleOverlayService struct {
	db            database.DB
	transaction   *TransactionService
	appConfigRepo repositories.AppConfigRepository
	eventBus      *events.EventBus
	ttl           time.Duration
	now           func() time.Time
	log           logger.Logger

	mu         sync.RWMutex
	cached     *models.RankingPolicy
	fetchedAt  time.Time
	generation uint64
}

func NewRuleOverlayService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	eventBus *events.EventBus,
	ttl time.Duration,
) *RuleOverlayService {
	return &RuleOverlayService{
		db:            db,
		transaction:   transaction,
		appConfigRepo: repos.AppConfig,
		eventBus:      eventBus,
		ttl:           ttl,
		now:           time.Now,
		log:           logger.New("ruleOverlayService"),
	}
}

// WithClock replaces the clock used for expiry checks.
func (s *RuleOverlayService) WithClock(now func() time.Time) *RuleOverlayService {
	s.now = now
	return s
}

// LoadRules returns the cached policy while it is fresh, otherwise reloads it from the
// config store. Any failure falls back to the compiled-in defaults, which are not cached.
func (s *RuleOverlayService) LoadRules(ctx context.Context) models.RankingPolicy {
	log := s.log.TraceFromContext(ctx).Function("LoadRules")

	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		policy := *s.cached
		s.mu.RUnlock()
		return policy
	}
	generation := s.generation
	s.mu.RUnlock()

	policy, found, err := s.fetch(ctx, s.db.SQLWithContext(ctx))
	if err != nil {
		log.Warn("failed to load ranking policy, using defaults", "error", err)
		return models.DefaultRankingPolicy()
	}
	if !found {
		log.Warn("ranking policy not configured, using defaults", "key", models.RankingPolicyConfigKey)
		return models.DefaultRankingPolicy()
	}

	s.mu.Lock()
	// An invalidation that raced with the fetch wins; the next read refetches.
	if s.generation == generation {
		s.cached = &policy
		s.fetchedAt = s.now()
	}
	s.mu.Unlock()

	return policy
}

// UpdateRules validates and stores a new policy under the next version, then invalidates
// this instance's cache and tells the other instances to do the same.
func (s *RuleOverlayService) UpdateRules(
	ctx context.Context,
	policy models.RankingPolicy,
) (models.RankingPolicy, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateRules")

	if err := validatePolicy(policy); err != nil {
		return models.RankingPolicy{}, log.Err("rejected ranking policy", err)
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var current models.RankingPolicy
		found, err := s.appConfigRepo.GetForUpdate(ctx, tx, models.RankingPolicyConfigKey, &current)
		if err != nil {
			return err
		}

		if found {
			policy.Version = current.Version + 1
			return s.appConfigRepo.Put(ctx, tx, models.RankingPolicyConfigKey, policy)
		}

		// No row to lock yet, so the first write is an insert that only one writer can win.
		policy.Version = 1
		created, err := s.appConfigRepo.CreateIfAbsent(ctx, tx, models.RankingPolicyConfigKey, policy)
		if err != nil {
			return err
		}
		if !created {
			return ErrPolicyConflict
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPolicyConflict) {
			return models.RankingPolicy{}, log.ErrorWithType(
				ErrPolicyConflict,
				"ranking policy was created concurrently",
			)
		}
		return models.RankingPolicy{}, log.Err("failed to store ranking policy", err)
	}

	s.Invalidate()

	if s.eventBus != nil {
		if err := s.eventBus.PublishRulesUpdated(policy.Version); err != nil {
			log.Warn("failed to publish rules update", "version", policy.Version, "error", err)
		}
	}

	log.Info("Ranking policy updated", "version", policy.Version, "rules", len(policy.Rules))
	return policy, nil
}

// Invalidate drops the cached policy so the next read goes to the store.
func (s *RuleOverlayService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.fetchedAt = time.Time{}
	s.generation++
}

// Warm refreshes the cache ahead of the first read after expiry.
func (s *RuleOverlayService) Warm(ctx context.Context) error {
	s.Invalidate()
	policy := s.LoadRules(ctx)
	s.log.Function("Warm").Debug("Ranking policy cache warmed", "version", policy.Version)
	return nil
}

// SubscribeToUpdates invalidates the cache whenever any instance replaces the policy.
func (s *RuleOverlayService) SubscribeToUpdates() error {
	if s.eventBus == nil {
		return nil
	}

	return s.eventBus.Subscribe(events.RULES_CHANNEL, func(event events.Event) error {
		if event.Type == events.RULES_UPDATED {
			s.Invalidate()
		}
		return nil
	})
}

func (s *RuleOverlayService) fetch(
	ctx context.Context,
	tx *gorm.DB,
) (models.RankingPolicy, bool, error) {
	var policy models.RankingPolicy
	found, err := s.appConfigRepo.Get(ctx, tx, models.RankingPolicyConfigKey, &policy)
	if err != nil || !found {
		return models.RankingPolicy{}, false, err
	}
	return policy, true, nil
}

func validatePolicy(policy models.RankingPolicy) error {
	if len(policy.Rules) == 0 {
		return fmt.Errorf("%w: at least one rule is required", ErrInvalidPolicy)
	}

	seen := make(map[string]bool, len(policy.Rules))
	for _, rule := range policy.Rules {
		if len(rule.Order) == 0 {
			return fmt.Errorf("%w: rule %q has an empty order", ErrInvalidPolicy, rule.Persona)
		}
		if rule.Persona == "" && !rule.IsDefault {
			return fmt.Errorf("%w: rules need a persona or the default flag", ErrInvalidPolicy)
		}
		if rule.Persona != "" && seen[rule.Persona] {
			return fmt.Errorf("%w: duplicate rule for persona %q", ErrInvalidPolicy, rule.Persona)
		}
		seen[rule.Persona] = true
	}

	if policy.Thresholds.QuickWinMaxRupees < 0 {
		return fmt.Errorf("%w: quick win threshold must not be negative", ErrInvalidPolicy)
	}

	return nil
}

// GetPriorityOrder returns the persona's ordered category tags, else the default rule's,
// else nil.
func GetPriorityOrder(policy models.RankingPolicy, persona string) []string {
	if persona != "" {
		for _, rule := range policy.Rules {
			if rule.Persona == persona {
				return rule.Order
			}
		}
	}

	if rule := policy.DefaultRule(); rule != nil {
		return rule.Order
	}

	return nil
}
