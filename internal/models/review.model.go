package models

type ReviewType string

const (
	ReviewHomeownerToCleaner ReviewType = "homeowner_to_cleaner"
	ReviewCleanerToHomeowner ReviewType = "cleaner_to_homeowner"
)

type Review struct {
	BaseModel
	ReviewType ReviewType `gorm:"type:text;index" json:"reviewType"`
	ReviewerID int        `gorm:"type:int;index"  json:"reviewerId"`
	CleanerID  int        `gorm:"type:int;index"  json:"cleanerId"`
	HomeID     *int       `gorm:"type:int"        json:"homeId,omitempty"`
	Rating     int        `gorm:"type:int"        json:"rating"`
	Comment    string     `gorm:"type:text"       json:"comment"`

	// Tri-state: nil leaves preferred status untouched, true sets it,
	// false unsets it.
	SetAsPreferred *bool `gorm:"type:bool" json:"setAsPreferred,omitempty"`
}

// CanTogglePreferred reports whether this review is allowed to mutate the
// preferred-cleaner registry: only homeowner-to-cleaner reviews that carry the
// flag and name a home qualify.
func (r *Review) CanTogglePreferred() bool {
	return r.ReviewType == ReviewHomeownerToCleaner &&
		r.SetAsPreferred != nil &&
		r.HomeID != nil
}
