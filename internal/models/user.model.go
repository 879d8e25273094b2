package models

import (
	"time"
)

type User struct {
	BaseUUIDModel
	DisplayName string     `gorm:"type:text"               json:"displayName"`
	Email       *string    `gorm:"type:text;uniqueIndex"   json:"email"`
	IsAdmin     bool       `gorm:"type:bool;default:false" json:"isAdmin"`
	IsActive    bool       `gorm:"type:bool;default:true"  json:"isActive"`
	LastLoginAt *time.Time `gorm:"type:timestamp"          json:"lastLoginAt,omitempty"`
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email,omitempty"`
	IsAdmin     bool    `json:"isAdmin"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
	}
}
