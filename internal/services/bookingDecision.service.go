package services

type BookingAction string

const (
	ActionDirectBooking   BookingAction = "direct_booking"
	ActionRequestApproval BookingAction = "request_approval"
)

// BookingDecision is the outcome of a cleaner's booking attempt. It is never
// persisted; the caller applies the side effects it prescribes.
type BookingDecision struct {
	Action               BookingAction `json:"action"`
	CreatePendingRequest bool          `json:"createPendingRequest"`
	AssignImmediately    bool          `json:"assignImmediately"`
	Message              string        `json:"message"`
}

// Decide maps preferred-cleaner status onto the booking flow. Preferred
// cleaners book directly; everyone else needs homeowner approval. Keeping this
// free of I/O means the one branching business rule is exhaustively testable
// without any persistence or notification setup. The caller resolves the flag
// via the preferred-cleaner registry first.
func Decide(isPreferredCleaner bool) BookingDecision {
	if isPreferredCleaner {
		return BookingDecision{
			Action:               ActionDirectBooking,
			CreatePendingRequest: false,
			AssignImmediately:    true,
			Message:              "Job booked successfully! As a preferred cleaner, no approval was needed.",
		}
	}

	return BookingDecision{
		Action:               ActionRequestApproval,
		CreatePendingRequest: true,
		AssignImmediately:    false,
		Message:              "Request sent to the client for approval",
	}
}
