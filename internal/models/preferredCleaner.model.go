package models

import "time"

type PreferredSetBy string

const (
	PreferredSetByReview PreferredSetBy = "review"
	PreferredSetByManual PreferredSetBy = "manual"
)

// HomePreferredCleaner links a cleaner a homeowner trusts to a home. The
// composite unique index is the real duplicate guard; the registry's existence
// check is only an optimization.
type HomePreferredCleaner struct {
	BaseModel
	HomeID    int            `gorm:"type:int;uniqueIndex:idx_home_cleaner" json:"homeId"`
	CleanerID int            `gorm:"type:int;uniqueIndex:idx_home_cleaner" json:"cleanerId"`
	SetAt     time.Time      `gorm:"type:timestamp"                        json:"setAt"`
	SetBy     PreferredSetBy `gorm:"type:text"                             json:"setBy"`

	Home    *Home `gorm:"foreignKey:HomeID"    json:"home,omitempty"`
	Cleaner *User `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
}
