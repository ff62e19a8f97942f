package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAssigned  AppointmentStatus = "assigned"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	BaseModel
	HomeID int   `gorm:"type:int;index" json:"homeId"`
	Home   *Home `gorm:"foreignKey:HomeID" json:"home,omitempty"`

	Date   time.Time         `gorm:"type:timestamp;index" json:"date"`
	Price  decimal.Decimal   `gorm:"type:numeric"         json:"price"`
	Status AppointmentStatus `gorm:"type:text;index"      json:"status"`

	AssignedEmployees []User `gorm:"many2many:appointment_employees" json:"assignedEmployees,omitempty"`

	// Stamped once a last-minute dispatch run has been attempted, regardless
	// of how many cleaners were reached.
	LastMinuteNotificationsSentAt *time.Time `gorm:"type:timestamp" json:"lastMinuteNotificationsSentAt,omitempty"`
}

// NeedsLastMinuteDispatch reports whether the appointment is still unassigned
// and has not been swept by a dispatch run yet.
func (a *Appointment) NeedsLastMinuteDispatch() bool {
	return a.Status == AppointmentStatusPending && a.LastMinuteNotificationsSentAt == nil
}
