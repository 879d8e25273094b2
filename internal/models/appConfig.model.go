package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppConfig is a versionless key/value document store for runtime configuration that
// must survive restarts, such as the ranking policy.
type AppConfig struct {
	Key       string         `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
