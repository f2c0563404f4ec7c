package services

import (
	"context"
	"time"

	"booking-service/data"
	"booking-service/domain"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AvailabilityServiceImpl struct {
	rooms    domain.RoomStore
	bookings domain.BookingStore
	Tracer   trace.Tracer
}

func NewAvailabilityServiceImpl(rooms domain.RoomStore, bookings domain.BookingStore, tracer trace.Tracer) AvailabilityService {
	return &AvailabilityServiceImpl{rooms: rooms, bookings: bookings, Tracer: tracer}
}

// IsAvailable decides whether the room can take a stay over the half-open
// interval [checkIn, checkOut). It fails closed: an unknown or disabled room
// is simply not available. checkIn < checkOut must already hold; callers
// validate before asking. Read-only, safe to call concurrently; the admission
// service serializes per room before acting on the answer.
func (s *AvailabilityServiceImpl) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "AvailabilityService.IsAvailable")
	defer span.End()

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if domain.KindOf(err) == domain.NotFound {
			return false, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	if !room.IsAvailable {
		return false, nil
	}

	for _, blocked := range room.BlockedDates {
		if data.IntervalsOverlap(checkIn, checkOut, blocked.StartDate, blocked.EndDate) {
			return false, nil
		}
	}

	conflicting, err := s.bookings.FindOverlapping(ctx, roomID, checkIn, checkOut,
		[]data.BookingStatus{data.Confirmed, data.Completed})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if len(conflicting) > 0 {
		return false, nil
	}

	return true, nil
}

// QuotePrice prices the stay off the room's current base rate. The room's
// weekend_price is deliberately not consulted here; per-night weekend
// differentiation is an extension point, not current behavior.
func (s *AvailabilityServiceImpl) QuotePrice(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*data.PriceQuote, error) {
	ctx, span := s.Tracer.Start(ctx, "AvailabilityService.QuotePrice")
	defer span.End()

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if domain.KindOf(err) == "" {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}

	nights := data.NightsBetween(checkIn, checkOut)

	return &data.PriceQuote{
		RoomRate:       room.BasePrice,
		NumberOfNights: nights,
		Subtotal:       room.BasePrice * float64(nights),
	}, nil
}
