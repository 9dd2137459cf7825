package models

// RoleType defines the user role type
type RoleType string

const (
	RoleUser   RoleType = "user"
	RoleLender RoleType = "lender"
	RoleAdmin  RoleType = "admin"
)

// ValidRole reports whether the given role is one of the known roles
func ValidRole(r RoleType) bool {
	switch r {
	case RoleUser, RoleLender, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus defines the lifecycle state of a user account
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// AvailabilityStatus defines whether a car can currently be rented
type AvailabilityStatus string

const (
	CarAvailable   AvailabilityStatus = "available"
	CarRented      AvailabilityStatus = "rented"
	CarMaintenance AvailabilityStatus = "maintenance"
	CarUnavailable AvailabilityStatus = "unavailable"
)

// ValidAvailability reports whether the given status is a known availability state
func ValidAvailability(s AvailabilityStatus) bool {
	switch s {
	case CarAvailable, CarRented, CarMaintenance, CarUnavailable:
		return true
	}
	return false
}

// MessageStatus defines the delivery state of a chat message
type MessageStatus string

const (
	MessageSent MessageStatus = "sent"
	MessageRead MessageStatus = "read"
)
