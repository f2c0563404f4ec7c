package services

import (
	"context"

	"booking-service/data"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *data.CreateBookingRequest, userID string) (*data.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string, role data.UserRole, reason string) (*data.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID string, role data.UserRole) (*data.Booking, error)
	GetBookingsByUser(ctx context.Context, userID string) (data.Bookings, error)
}
