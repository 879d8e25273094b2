package repositories

import (
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "sinecarbon/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
}

type userRepository struct {
	log logger.Logger
}

func NewUserRepository() UserRepository {
	return &userRepository{
		log: logger.New("userRepository"),
	}
}

// GetByID returns nil without an error when the user does not exist.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	user, err := gorm.G[User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get user by id", err, "userID", id)
	}

	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	if err := tx.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, log.Err("failed to check user existence", err, "userID", id)
	}

	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return log.Err("failed to create user", err, "displayName", user.DisplayName)
	}

	return nil
}
