package domain

import "time"

// WalkerStatus represents the approval state of a walker profile.
type WalkerStatus string

const (
	WalkerStatusPending   WalkerStatus = "PENDING"
	WalkerStatusApproved  WalkerStatus = "APPROVED"
	WalkerStatusSuspended WalkerStatus = "SUSPENDED"
)

// Walker represents a walk provider in the system. Only APPROVED
// walkers are eligible for matching.
type Walker struct {
	ID        string
	Name      string
	Phone     string
	RUT       string // canonical form, e.g. "12.345.678-5"
	Status    WalkerStatus
	Rating    float64
	CreatedAt time.Time
}
