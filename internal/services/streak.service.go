package services

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/utils"
)

type StreakView struct {
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastActionDay string `json:"lastActionDay,omitempty"`
}

func newStreakView(streak *models.UserStreak) StreakView {
	if streak == nil {
		return StreakView{}
	}
	return StreakView{
		Current:       streak.CurrentDays,
		Longest:       streak.LongestDays,
		LastActionDay: streak.LastActionDay,
	}
}

type StreakService struct {
	streakRepo repositories.StreakRepository
	clock      *utils.DayClock
	log        logger.Logger
}

func NewStreakService(repos repositories.Repository, clock *utils.DayClock) *StreakService {
	return &StreakService{
		streakRepo: repos.Streak,
		clock:      clock,
		log:        logger.New("streakService"),
	}
}

// Touch records a completed action today. It must run inside the caller's transaction so
// the locked read and the write are atomic.
func (s *StreakService) Touch(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (StreakView, error) {
	log := s.log.TraceFromContext(ctx).Function("Touch")

	streak, err := s.streakRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return StreakView{}, log.Err("failed to read streak", err, "userID", userID)
	}

	today := s.clock.Today()
	if streak == nil {
		streak = &models.UserStreak{UserID: userID}
	} else if streak.LastActionDay == today {
		return newStreakView(streak), nil
	}

	streak.CurrentDays, streak.LongestDays = advanceStreak(streak, today)
	streak.LastActionDay = today

	if err := s.streakRepo.Save(ctx, tx, streak); err != nil {
		return StreakView{}, log.Err("failed to save streak", err, "userID", userID)
	}

	return newStreakView(streak), nil
}

// Current reads the streak without touching it.
func (s *StreakService) Current(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (StreakView, error) {
	log := s.log.TraceFromContext(ctx).Function("Current")

	streak, err := s.streakRepo.Get(ctx, tx, userID)
	if err != nil {
		return StreakView{}, log.Err("failed to read streak", err, "userID", userID)
	}

	return newStreakView(streak), nil
}

// advanceStreak extends a run that ended the day before today and restarts any other.
func advanceStreak(streak *models.UserStreak, today string) (current, longest int) {
	current = 1
	if streak.CurrentDays > 0 && utils.DaysBetween(streak.LastActionDay, today) == 1 {
		current = streak.CurrentDays + 1
	}
	return current, max(streak.LongestDays, current)
}
