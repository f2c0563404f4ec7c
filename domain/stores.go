package domain

import (
	"context"
	"time"

	"booking-service/data"
)

// RoomStore is the source of truth for a room's current rate, capacity,
// availability flag and blocked dates.
type RoomStore interface {
	GetRoom(ctx context.Context, roomID string) (*data.Room, error)
}

// BookingStore persists bookings. FindOverlapping applies the half-open
// interval rule: [a,b) and [c,d) overlap iff a < d && c < b.
type BookingStore interface {
	FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []data.BookingStatus) (data.Bookings, error)
	FindByReference(ctx context.Context, reference string) (*data.Booking, error)
	FindByID(ctx context.Context, bookingID string) (*data.Booking, error)
	FindByUser(ctx context.Context, userID string) (data.Bookings, error)
	Insert(ctx context.Context, booking *data.Booking) (*data.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, fields map[string]interface{}) error
}

// EventStore receives append-only booking lifecycle events for the analytics
// collaborator. Writes are best effort.
type EventStore interface {
	InsertEvent(ctx context.Context, event *data.BookingEvent) error
}

// PaymentClient is the external payment collaborator. Charge returns the
// resulting payment state; Refund execution is fire-and-forget from the
// booking core's point of view.
type PaymentClient interface {
	Charge(ctx context.Context, method string, amount float64, reference string) (*data.Payment, error)
	Refund(ctx context.Context, transactionID string) error
}

// Notifier sends guest-facing messages about a booking. Failures are logged,
// never surfaced to the client.
type Notifier interface {
	BookingConfirmed(booking *data.Booking) error
	BookingCancelled(booking *data.Booking) error
}
