package domain

import "time"

// RequestStatus is the lifecycle state of a customer request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusSolved   RequestStatus = "solved"
	StatusRejected RequestStatus = "rejected"
	StatusWorkout  RequestStatus = "workout"
)

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case StatusPending, StatusSolved, StatusRejected, StatusWorkout:
		return true
	}
	return false
}

// Request is a customer inquiry about one of the vendor's products. The
// product reference is a weak link: deleting the product does not cascade
// to its requests, and reads resolve a dangling reference to null.
type Request struct {
	ID        string
	VendorID  string
	ProductID string
	Name      string
	Email     string
	Phone     string
	Notes     string
	Status    RequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
