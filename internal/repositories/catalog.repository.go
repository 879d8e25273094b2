package repositories

import (
	"cmp"
	"context"
	"errors"
	"slices"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"

	"sinecarbon/internal/constants"
	"sinecarbon/internal/database"
	. "sinecarbon/internal/models"
)

// CatalogQuery narrows a catalog read. The zero value selects every card. Persona only
// affects ordering; MaxItems of zero means no limit.
type CatalogQuery struct {
	IDs        []string
	Categories []string
	Persona    string
	MaxItems   int
}

func (q CatalogQuery) matches(card *RecommendationCard) bool {
	if len(q.IDs) > 0 && !slices.Contains(q.IDs, card.ID) {
		return false
	}
	if len(q.Categories) > 0 && !slices.Contains(q.Categories, card.Category) {
		return false
	}
	return true
}

// sortCards orders by editorial priority, then fit for the persona, both descending, then id.
func (q CatalogQuery) sortCards(cards []*RecommendationCard) {
	slices.SortFunc(cards, func(a, b *RecommendationCard) int {
		if c := cmp.Compare(b.EditorialPriority, a.EditorialPriority); c != 0 {
			return c
		}
		if q.Persona != "" {
			if c := cmp.Compare(b.FitFor(q.Persona), a.FitFor(q.Persona)); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

type CatalogRepository interface {
	Query(ctx context.Context, tx *gorm.DB, query CatalogQuery) ([]*RecommendationCard, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*RecommendationCard, error)
	GetLegacyByID(ctx context.Context, tx *gorm.DB, id string) (*LegacyAction, error)
	GetMeta(ctx context.Context) CatalogMeta
	UpsertCards(ctx context.Context, tx *gorm.DB, cards []*RecommendationCard) error
	UpsertLegacyActions(ctx context.Context, tx *gorm.DB, actions []*LegacyAction) error
	RefreshCache(ctx context.Context, tx *gorm.DB) (int, error)
	ClearCache(ctx context.Context) error
}

type catalogRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewCatalogRepository(cache database.CacheClient) CatalogRepository {
	return &catalogRepository{
		cache: cache,
		log:   logger.New("catalogRepository"),
	}
}

// Query returns the matching cards ranked by editorial priority and persona fit. The full
// catalog is read through the cache and filtered in memory.
func (r *catalogRepository) Query(
	ctx context.Context,
	tx *gorm.DB,
	query CatalogQuery,
) ([]*RecommendationCard, error) {
	log := r.log.Function("Query")

	cards, found := r.getCachedCards(ctx)
	if !found {
		var err error
		cards, err = r.loadCards(ctx, tx)
		if err != nil {
			return nil, log.Err("failed to query catalog", err)
		}
		r.setCachedCards(ctx, cards)
	}

	filtered := make([]*RecommendationCard, 0, len(cards))
	for _, card := range cards {
		if query.matches(card) {
			filtered = append(filtered, card)
		}
	}

	query.sortCards(filtered)
	if query.MaxItems > 0 && len(filtered) > query.MaxItems {
		filtered = filtered[:query.MaxItems]
	}

	return filtered, nil
}

// GetByID returns nil without an error when the card does not exist.
func (r *catalogRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id string,
) (*RecommendationCard, error) {
	log := r.log.Function("GetByID")

	card, err := gorm.G[RecommendationCard](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get recommendation card", err, "recommendationID", id)
	}

	return &card, nil
}

// GetLegacyByID returns nil without an error when the legacy action does not exist.
func (r *catalogRepository) GetLegacyByID(
	ctx context.Context,
	tx *gorm.DB,
	id string,
) (*LegacyAction, error) {
	log := r.log.Function("GetLegacyByID")

	action, err := gorm.G[LegacyAction](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get legacy action", err, "actionID", id)
	}

	return &action, nil
}

func (r *catalogRepository) GetMeta(ctx context.Context) CatalogMeta {
	return DefaultCatalogMeta()
}

func (r *catalogRepository) UpsertCards(
	ctx context.Context,
	tx *gorm.DB,
	cards []*RecommendationCard,
) error {
	log := r.log.Function("UpsertCards")

	if len(cards) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Save(cards).Error; err != nil {
		return log.Err("failed to upsert recommendation cards", err, "count", len(cards))
	}

	if err := r.ClearCache(ctx); err != nil {
		log.Warn("failed to clear catalog cache after upsert", "error", err)
	}

	return nil
}

func (r *catalogRepository) UpsertLegacyActions(
	ctx context.Context,
	tx *gorm.DB,
	actions []*LegacyAction,
) error {
	log := r.log.Function("UpsertLegacyActions")

	if len(actions) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Save(actions).Error; err != nil {
		return log.Err("failed to upsert legacy actions", err, "count", len(actions))
	}

	return nil
}

// RefreshCache reloads the catalog from the database into the cache and reports how many
// cards it holds.
func (r *catalogRepository) RefreshCache(ctx context.Context, tx *gorm.DB) (int, error) {
	log := r.log.Function("RefreshCache")

	cards, err := r.loadCards(ctx, tx)
	if err != nil {
		return 0, log.Err("failed to load catalog for cache refresh", err)
	}

	r.setCachedCards(ctx, cards)
	return len(cards), nil
}

func (r *catalogRepository) ClearCache(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}

	return database.NewCacheBuilder(r.cache, constants.CatalogCacheKey).
		WithContext(ctx).
		WithHash(constants.CatalogCachePrefix).
		Delete()
}

func (r *catalogRepository) loadCards(
	ctx context.Context,
	tx *gorm.DB,
) ([]*RecommendationCard, error) {
	return gorm.G[*RecommendationCard](tx).Order("id ASC").Find(ctx)
}

func (r *catalogRepository) getCachedCards(ctx context.Context) ([]*RecommendationCard, bool) {
	if r.cache == nil {
		return nil, false
	}

	var cached []*RecommendationCard
	found, err := database.NewCacheBuilder(r.cache, constants.CatalogCacheKey).
		WithContext(ctx).
		WithHash(constants.CatalogCachePrefix).
		Get(&cached)
	if err != nil {
		r.log.Function("getCachedCards").Warn("failed to get catalog from cache", "error", err)
		return nil, false
	}

	return cached, found
}

func (r *catalogRepository) setCachedCards(ctx context.Context, cards []*RecommendationCard) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, constants.CatalogCacheKey).
		WithContext(ctx).
		WithHash(constants.CatalogCachePrefix).
		WithStruct(cards).
		WithTTL(constants.CatalogCacheExpiry).
		Set()
	if err != nil {
		r.log.Function("setCachedCards").Warn("failed to cache catalog", "error", err)
	}
}
