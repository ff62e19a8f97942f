package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationLastMinuteUrgent NotificationType = "last_minute_urgent"
	NotificationPreferredCleaner NotificationType = "preferred_cleaner"
)

type Notification struct {
	BaseModel
	UserID int   `gorm:"type:int;index" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type           NotificationType `gorm:"type:text;index"         json:"type"`
	Title          string           `gorm:"type:text"               json:"title"`
	Body           string           `gorm:"type:text"               json:"body"`
	ActionRequired bool             `gorm:"type:bool;default:false" json:"actionRequired"`
	Read           bool             `gorm:"type:bool;default:false" json:"read"`
	Data           datatypes.JSON   `gorm:"type:jsonb"              json:"data,omitempty"`
	ExpiresAt      *time.Time       `gorm:"type:timestamp"          json:"expiresAt,omitempty"`
}
