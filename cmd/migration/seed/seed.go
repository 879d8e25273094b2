package seed

import (
	"context"
	"time"

	"sinecarbon/config"
	"sinecarbon/internal/handlers/middleware"
	"sinecarbon/internal/repositories"
	. "sinecarbon/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

type devUser struct {
	user      User
	archetype string
}

func Seed(db *gorm.DB, config config.Config, repos repositories.Repository, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	ctx := context.Background()

	users := []devUser{
		{
			user: User{
				DisplayName: "Administrator",
				Email:       stringPtr("admin@example.com"),
				IsAdmin:     true,
				IsActive:    true,
			},
		},
		{
			user: User{
				DisplayName: "Asha Menon",
				Email:       stringPtr("asha@example.com"),
				IsActive:    true,
			},
			archetype: "eco_warrior",
		},
		{
			user: User{
				DisplayName: "Ravi Iyer",
				Email:       stringPtr("ravi@example.com"),
				IsActive:    true,
			},
			archetype: "thrifty_saver",
		},
	}

	for _, seed := range users {
		var existingUser User
		if err := db.First(&existingUser, "email = ?", *seed.user.Email).Error; err == nil {
			log.Info("User already exists", "email", *seed.user.Email)
			continue
		}

		user := seed.user
		log.Info("Seeding user", "email", *user.Email)
		if err := repos.User.Create(ctx, db, &user); err != nil {
			log.Er("failed to create user", err, "email", *user.Email)
			continue
		}

		if seed.archetype != "" {
			if err := repos.Personality.Create(ctx, db, &PersonalityResult{
				UserID:    user.ID,
				Archetype: seed.archetype,
				TakenAt:   time.Now().Add(-24 * time.Hour),
			}); err != nil {
				log.Er("failed to create personality result", err, "userID", user.ID)
			}
		}

		token, err := middleware.SignToken(config.JWTSecret, user.ID, jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		})
		if err != nil {
			log.Er("failed to sign development token", err, "userID", user.ID)
			continue
		}
		log.Info("Development token", "email", *user.Email, "token", token)
	}

	return nil
}
