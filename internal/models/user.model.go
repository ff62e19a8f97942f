package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserType string

const (
	UserTypeHomeowner UserType = "homeowner"
	UserTypeCleaner   UserType = "cleaner"
)

// Notification channel tags stored in User.NotificationPreferences.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

const BusinessVerified = "verified"

type User struct {
	BaseModel
	FirstName string   `gorm:"type:text"                 json:"firstName"`
	LastName  string   `gorm:"type:text"                 json:"lastName"`
	Email     *string  `gorm:"type:text;uniqueIndex"     json:"email"`
	Type      UserType `gorm:"type:text;index"           json:"type"`
	IsFrozen  bool     `gorm:"type:bool;default:false"   json:"isFrozen"`

	// Delivery targets and opt-ins
	PushToken               *string                     `gorm:"type:text"  json:"-"`
	NotificationPreferences datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"notificationPreferences"`

	// Cleaner service area. Coordinates are stored as plain decimal strings,
	// unencrypted, so dispatch scans never pay decryption cost per candidate.
	ServiceAreaLatitude    *string  `gorm:"type:text"    json:"serviceAreaLatitude,omitempty"`
	ServiceAreaLongitude   *string  `gorm:"type:text"    json:"serviceAreaLongitude,omitempty"`
	ServiceAreaRadiusMiles *float64 `gorm:"type:numeric" json:"serviceAreaRadiusMiles,omitempty"`

	// Business verification
	IsBusinessOwner            bool    `gorm:"type:bool;default:false" json:"isBusinessOwner"`
	BusinessVerificationStatus *string `gorm:"type:text"               json:"businessVerificationStatus,omitempty"`
	BusinessHighlightOptIn     *bool   `gorm:"type:bool"               json:"businessHighlightOptIn,omitempty"`

	LockedUntil *time.Time `gorm:"type:timestamp" json:"-"`
}

// HasEmailOptIn reports whether urgent emails may be sent to this user. Both
// the channel opt-in and a deliverable address are required.
func (u *User) HasEmailOptIn() bool {
	if u.Email == nil || *u.Email == "" {
		return false
	}
	for _, channel := range u.NotificationPreferences {
		if channel == ChannelEmail {
			return true
		}
	}
	return false
}

// HasPushOptIn reports whether a push notification can be delivered.
func (u *User) HasPushOptIn() bool {
	return u.PushToken != nil && *u.PushToken != ""
}

// IsVerifiedBusiness reports whether the cleaner should be highlighted as a
// verified business in ranked results. Opt-out is explicit: a nil
// BusinessHighlightOptIn still counts as opted in.
func (u *User) IsVerifiedBusiness() bool {
	if !u.IsBusinessOwner {
		return false
	}
	if u.BusinessVerificationStatus == nil || *u.BusinessVerificationStatus != BusinessVerified {
		return false
	}
	return u.BusinessHighlightOptIn == nil || *u.BusinessHighlightOptIn
}

// IsLocked is normalized to a strict boolean: an absent LockedUntil means not
// locked, never null.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}

// FullName joins first and last name for notification templates.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
