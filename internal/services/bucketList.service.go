package services

import (
	"context"
	"slices"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sinecarbon/internal/database"
	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
)

type BucketStatus string

const (
	BucketStatusDone    BucketStatus = "done"
	BucketStatusSnoozed BucketStatus = "snoozed"
)

type BucketImpact struct {
	MonthlyRupees int64   `json:"monthlyRupees"`
	CO2Kg         float64 `json:"co2Kg"`
}

type BucketItem struct {
	RecommendationID string       `json:"recommendationId"`
	Title            string       `json:"title"`
	Category         string       `json:"category"`
	Status           BucketStatus `json:"status"`
	Impact           BucketImpact `json:"impact"`
	Legacy           bool         `json:"legacy"`
	AddedAt          time.Time    `json:"addedAt"`
	LastUpdatedAt    time.Time    `json:"lastUpdatedAt"`
}

type BucketList struct {
	Items        []BucketItem `json:"items"`
	Total        int          `json:"total"`
	DoneCount    int          `json:"doneCount"`
	SnoozedCount int          `json:"snoozedCount"`
}

func emptyBucketList() BucketList {
	return BucketList{Items: []BucketItem{}}
}

type BucketListService struct {
	db          database.DB
	outcomeRepo repositories.OutcomeEventRepository
	catalogRepo repositories.CatalogRepository
	log         logger.Logger
}

func NewBucketListService(db database.DB, repos repositories.Repository) *BucketListService {
	return &BucketListService{
		db:          db,
		outcomeRepo: repos.OutcomeEvent,
		catalogRepo: repos.Catalog,
		log:         logger.New("bucketListService"),
	}
}

// GetBucketList folds the user's done and snooze events into one entry per
// recommendation. Store failures produce an empty list.
func (s *BucketListService) GetBucketList(ctx context.Context, userID uuid.UUID) BucketList {
	log := s.log.TraceFromContext(ctx).Function("GetBucketList")
	tx := s.db.SQLWithContext(ctx)

	history, err := s.outcomeRepo.ListByTypes(
		ctx,
		tx,
		userID,
		[]models.OutcomeEventType{models.OutcomeEventDone, models.OutcomeEventSnooze},
	)
	if err != nil {
		log.Warn("event log unavailable, returning empty bucket list", "userID", userID, "error", err)
		return emptyBucketList()
	}

	meta := s.catalogRepo.GetMeta(ctx)
	list := emptyBucketList()
	for _, group := range groupByRecommendation(history) {
		item, ok, err := s.resolve(ctx, tx, group, meta)
		if err != nil {
			log.Warn("catalog unavailable, returning empty bucket list", "userID", userID, "error", err)
			return emptyBucketList()
		}
		if !ok {
			log.Debug("dropping unresolvable bucket list entry", "recommendationID", group.id)
			continue
		}

		list.Items = append(list.Items, item)
		switch item.Status {
		case BucketStatusDone:
			list.DoneCount++
		case BucketStatusSnoozed:
			list.SnoozedCount++
		}
	}

	slices.SortStableFunc(list.Items, func(a, b BucketItem) int {
		return b.LastUpdatedAt.Compare(a.LastUpdatedAt)
	})
	list.Total = len(list.Items)

	return list
}

type eventGroup struct {
	id       string
	latest   *models.OutcomeEvent
	earliest time.Time
}

// groupByRecommendation expects events newest first and keeps first-seen order.
func groupByRecommendation(history []*models.OutcomeEvent) []*eventGroup {
	groups := make([]*eventGroup, 0)
	byID := make(map[string]*eventGroup)

	for _, event := range history {
		group, ok := byID[event.RecommendationID]
		if !ok {
			group = &eventGroup{id: event.RecommendationID, latest: event, earliest: event.OccurredAt}
			byID[event.RecommendationID] = group
			groups = append(groups, group)
			continue
		}
		if event.OccurredAt.After(group.latest.OccurredAt) {
			group.latest = event
		}
		if event.OccurredAt.Before(group.earliest) {
			group.earliest = event.OccurredAt
		}
	}

	return groups
}

func (s *BucketListService) resolve(
	ctx context.Context,
	tx *gorm.DB,
	group *eventGroup,
	meta models.CatalogMeta,
) (BucketItem, bool, error) {
	item := BucketItem{
		RecommendationID: group.id,
		Status:           bucketStatus(group.latest.EventType),
		AddedAt:          group.earliest,
		LastUpdatedAt:    group.latest.OccurredAt,
	}

	card, err := s.catalogRepo.GetByID(ctx, tx, group.id)
	if err != nil {
		return BucketItem{}, false, err
	}
	if card != nil {
		item.Title = card.Title
		item.Category = card.Category
		item.Impact = newBucketImpact(card.AnnualKgCO2e, meta)
		return item, true, nil
	}

	legacy, err := s.catalogRepo.GetLegacyByID(ctx, tx, group.id)
	if err != nil {
		return BucketItem{}, false, err
	}
	if legacy == nil {
		return BucketItem{}, false, nil
	}

	item.Title = legacy.Title
	item.Category = legacy.Category
	item.Impact = newBucketImpact(legacy.AnnualKg, meta)
	item.Legacy = true
	return item, true, nil
}

func newBucketImpact(annualKg float64, meta models.CatalogMeta) BucketImpact {
	impact := WeeklyImpact(annualKg, meta)
	return BucketImpact{MonthlyRupees: impact.Rupees, CO2Kg: impact.CO2Kg}
}

func bucketStatus(eventType models.OutcomeEventType) BucketStatus {
	if eventType == models.OutcomeEventDone {
		return BucketStatusDone
	}
	return BucketStatusSnoozed
}
