package services

import (
	"context"
	"math"
	"slices"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"

	"sinecarbon/internal/database"
	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/utils"
)

const nextActionsCount = 3

// CardView is a ranked recommendation as presented to the user.
type CardView struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	BehaviorDistance string            `json:"behaviorDistance,omitempty"`
	Tier             models.ActionTier `json:"tier"`
	Label            string            `json:"label"`
	Rupees           int64             `json:"rupees"`
	CO2KgPerDay      float64           `json:"co2KgPerDay"`
	Score            int               `json:"score"`
}

// NextActions is one primary recommendation and up to two alternatives.
type NextActions struct {
	Persona       string     `json:"persona,omitempty"`
	PolicyVersion int        `json:"policyVersion"`
	Primary       CardView   `json:"primary"`
	Alternatives  []CardView `json:"alternatives"`
}

// IDs lists every recommendation in the result, primary first.
func (n *NextActions) IDs() []string {
	ids := []string{n.Primary.ID}
	for _, alt := range n.Alternatives {
		ids = append(ids, alt.ID)
	}
	return ids
}

type RankingService struct {
	db              database.DB
	userRepo        repositories.UserRepository
	personalityRepo repositories.PersonalityRepository
	catalogRepo     repositories.CatalogRepository
	completedRepo   repositories.CompletedActionRepository
	rules           *RuleOverlayService
	clock           *utils.DayClock
	log             logger.Logger
}

func NewRankingService(
	db database.DB,
	repos repositories.Repository,
	rules *RuleOverlayService,
	clock *utils.DayClock,
) *RankingService {
	return &RankingService{
		db:              db,
		userRepo:        repos.User,
		personalityRepo: repos.Personality,
		catalogRepo:     repos.Catalog,
		completedRepo:   repos.CompletedAction,
		rules:           rules,
		clock:           clock,
		log:             logger.New("rankingService"),
	}
}

// GetNextActions ranks the catalog for the user. It returns nil when the user is unknown,
// when nothing is left to recommend today, or when a backing store fails. The error is
// only set when ctx itself is done.
func (s *RankingService) GetNextActions(ctx context.Context, userID uuid.UUID) (*NextActions, error) {
	log := s.log.TraceFromContext(ctx).Function("GetNextActions")
	tx := s.db.SQLWithContext(ctx)

	exists, err := s.userRepo.Exists(ctx, tx, userID)
	if err != nil {
		log.Warn("user lookup failed, returning no recommendations", "userID", userID, "error", err)
		return nil, ctx.Err()
	}
	if !exists {
		log.Info("Unknown user, no recommendations", "userID", userID)
		return nil, nil
	}

	persona, err := s.personalityRepo.LatestPersonality(ctx, tx, userID)
	if err != nil {
		log.Warn("personality lookup failed, returning no recommendations", "userID", userID, "error", err)
		return nil, ctx.Err()
	}

	catalog, err := s.catalogRepo.Query(ctx, tx, repositories.CatalogQuery{Persona: persona})
	if err != nil {
		log.Warn("catalog unavailable, returning no recommendations", "error", err)
		return nil, ctx.Err()
	}

	completedToday, err := s.completedRepo.ListRecommendationIDsForDay(ctx, tx, userID, s.clock.Today())
	if err != nil {
		log.Warn("completed actions unavailable, returning no recommendations", "userID", userID, "error", err)
		return nil, ctx.Err()
	}

	policy := s.rules.LoadRules(ctx)
	order := GetPriorityOrder(policy, persona)

	ranked := rankCards(excludeCards(catalog, completedToday), order)
	if len(ranked) == 0 {
		log.Info("No eligible recommendations left today", "userID", userID)
		return nil, nil
	}

	meta := s.catalogRepo.GetMeta(ctx)
	result := &NextActions{
		Persona:       persona,
		PolicyVersion: policy.Version,
		Primary:       newCardView(ranked[0], models.TierPrimary, policy, meta),
		Alternatives:  make([]CardView, 0, nextActionsCount-1),
	}

	for _, scored := range ranked[1:] {
		tier := policy.Classify(AnnualRupees(scored.card.AnnualKgCO2e, meta))
		result.Alternatives = append(result.Alternatives, newCardView(scored, tier, policy, meta))
	}

	return result, nil
}

type scoredCard struct {
	card  *models.RecommendationCard
	score int
}

// rankCards scores every card against the priority order and returns the top three,
// highest score first. Ties keep catalog order.
func rankCards(cards []*models.RecommendationCard, order []string) []scoredCard {
	scored := make([]scoredCard, 0, len(cards))
	for _, card := range cards {
		scored = append(scored, scoredCard{card: card, score: ScoreCard(card, order)})
	}

	slices.SortStableFunc(scored, func(a, b scoredCard) int {
		return b.score - a.score
	})

	if len(scored) > nextActionsCount {
		scored = scored[:nextActionsCount]
	}
	return scored
}

// ScoreCard weights the card's position in the priority order first, then its editorial
// priority, then up to five points for its carbon impact.
func ScoreCard(card *models.RecommendationCard, order []string) int {
	score := 0
	for idx, tag := range order {
		if card.Matches(tag) {
			score = (len(order) - idx) * 100
			break
		}
	}

	score += card.EditorialPriority * 10
	score += int(math.Min(5, math.Round(card.AnnualKgCO2e/100)))
	return score
}

func excludeCards(cards []*models.RecommendationCard, excluded []string) []*models.RecommendationCard {
	if len(excluded) == 0 {
		return cards
	}

	eligible := make([]*models.RecommendationCard, 0, len(cards))
	for _, card := range cards {
		if !slices.Contains(excluded, card.ID) {
			eligible = append(eligible, card)
		}
	}
	return eligible
}

func newCardView(
	scored scoredCard,
	tier models.ActionTier,
	policy models.RankingPolicy,
	meta models.CatalogMeta,
) CardView {
	card := scored.card
	return CardView{
		ID:               card.ID,
		Title:            card.Title,
		Description:      card.Description,
		Category:         card.Category,
		BehaviorDistance: card.BehaviorDistance,
		Tier:             tier,
		Label:            policy.Label(tier),
		Rupees:           AnnualRupees(card.AnnualKgCO2e, meta),
		CO2KgPerDay:      DailyCO2(card.AnnualKgCO2e, meta),
		Score:            scored.score,
	}
}
