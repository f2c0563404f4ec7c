package services

import (
	"context"
	"time"

	"booking-service/data"
)

type AvailabilityService interface {
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	QuotePrice(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*data.PriceQuote, error)
}
