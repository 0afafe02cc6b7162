package domain

// DealStatus represents the pipeline stage of a registered deal.
// The wire values are fixed; the frontend and CSV exports depend on them.
type DealStatus string

const (
	DealStatusNew       DealStatus = "new"
	DealStatusFirstCall DealStatus = "1st_call"
	DealStatusMoreCalls DealStatus = "2plus_calls"
	DealStatusApproved  DealStatus = "approved"
	DealStatusWon       DealStatus = "won"
	DealStatusLost      DealStatus = "lost"
	DealStatusLater     DealStatus = "later"
)

// DealStatuses lists every valid status in display order.
var DealStatuses = []DealStatus{
	DealStatusNew,
	DealStatusFirstCall,
	DealStatusMoreCalls,
	DealStatusApproved,
	DealStatusWon,
	DealStatusLost,
	DealStatusLater,
}

// IsValid checks if the deal status is valid
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusNew,
		DealStatusFirstCall,
		DealStatusMoreCalls,
		DealStatusApproved,
		DealStatusWon,
		DealStatusLost,
		DealStatusLater:
		return true
	default:
		return false
	}
}

// UserRole separates admin operators from partner users
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RolePartner UserRole = "partner"
)

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RolePartner
}

// ApplicationStatus represents the state of a partner onboarding application
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsValid checks if the application status is valid
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. Applications are
// decided exactly once: pending is the sole non-terminal state.
func (s ApplicationStatus) CanTransitionTo(newStatus ApplicationStatus) bool {
	if s != ApplicationStatusPending {
		return false
	}
	return newStatus == ApplicationStatusApproved || newStatus == ApplicationStatusRejected
}
