package models

type Home struct {
	BaseModel
	OwnerID int   `gorm:"type:int;index" json:"ownerId"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Address string `gorm:"type:text" json:"address"`
	City    string `gorm:"type:text" json:"city"`

	// Coordinates are PII and stored encrypted; decode through the codec
	// service before use.
	Latitude  string `gorm:"type:text" json:"-"`
	Longitude string `gorm:"type:text" json:"-"`

	// When false, stored preferred-cleaner links are inert for booking
	// decisions but the rows remain.
	UsePreferredCleaners bool `gorm:"type:bool;default:true" json:"usePreferredCleaners"`
}
