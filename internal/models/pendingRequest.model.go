package models

type PendingRequestStatus string

const (
	PendingRequestOpen     PendingRequestStatus = "open"
	PendingRequestApproved PendingRequestStatus = "approved"
	PendingRequestDeclined PendingRequestStatus = "declined"
)

// PendingRequest is a cleaner's request to take an appointment that still
// needs homeowner approval. A cleaner may hold at most one request per
// appointment, enforced by the composite unique index.
type PendingRequest struct {
	BaseModel
	AppointmentID int                  `gorm:"type:int;uniqueIndex:idx_appointment_requester" json:"appointmentId"`
	RequesterID   int                  `gorm:"type:int;uniqueIndex:idx_appointment_requester" json:"requesterId"`
	Status        PendingRequestStatus `gorm:"type:text;default:open"                         json:"status"`

	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Requester   *User        `gorm:"foreignKey:RequesterID"   json:"requester,omitempty"`
}
