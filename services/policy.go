package services

import "booking-service/data"

// CanAccessBooking is the ownership policy for viewing or cancelling a
// booking: the booking's owner or an administrator.
func CanAccessBooking(actorID string, role data.UserRole, ownerID string) bool {
	if role == data.Admin {
		return true
	}
	return actorID == ownerID
}
