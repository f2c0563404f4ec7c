package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"booking-service/data"
	"booking-service/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const referenceAttempts = 5

// roomLocks hands out one mutex per room id so that only one admission
// decision per room is in flight at a time. This closes the
// check-then-act window between the availability check and the insert.
type roomLocks struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func (rl *roomLocks) forRoom(roomID string) *sync.Mutex {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.rooms == nil {
		rl.rooms = make(map[string]*sync.Mutex)
	}
	lock, ok := rl.rooms[roomID]
	if !ok {
		lock = &sync.Mutex{}
		rl.rooms[roomID] = lock
	}
	return lock
}

type BookingServiceImpl struct {
	rooms        domain.RoomStore
	bookings     domain.BookingStore
	events       domain.EventStore
	payments     domain.PaymentClient
	notifier     domain.Notifier
	availability AvailabilityService
	logger       *logrus.Logger
	Tracer       trace.Tracer

	taxRate        float64
	serviceFeeRate float64

	admission roomLocks
	now       func() time.Time
}

// NewBookingServiceImpl wires the admission service. events and notifier may
// be nil; their writes are best effort and never fail a booking.
func NewBookingServiceImpl(rooms domain.RoomStore, bookings domain.BookingStore, events domain.EventStore,
	payments domain.PaymentClient, notifier domain.Notifier, availability AvailabilityService,
	taxRate, serviceFeeRate float64, logger *logrus.Logger, tracer trace.Tracer) BookingService {
	return &BookingServiceImpl{
		rooms:          rooms,
		bookings:       bookings,
		events:         events,
		payments:       payments,
		notifier:       notifier,
		availability:   availability,
		logger:         logger,
		Tracer:         tracer,
		taxRate:        taxRate,
		serviceFeeRate: serviceFeeRate,
		now:            time.Now,
	}
}

// CreateBooking turns a booking request into a persisted confirmed booking
// or a rejection with a specific error kind. Validation fails fast; the
// availability check, pricing and insert run under the room's admission
// lock so racing requests for overlapping dates produce exactly one
// success.
func (s *BookingServiceImpl) CreateBooking(ctx context.Context, req *data.CreateBookingRequest, userID string) (*data.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	checkIn, err := data.ParseDate(req.CheckInDate)
	if err != nil {
		return nil, domain.ErrInvalidDateRange("check-in date must be a valid YYYY-MM-DD date")
	}
	checkOut, err := data.ParseDate(req.CheckOutDate)
	if err != nil {
		return nil, domain.ErrInvalidDateRange("check-out date must be a valid YYYY-MM-DD date")
	}

	today := data.StartOfDay(s.now())
	if checkIn.Before(today) {
		return nil, domain.ErrInvalidDateRange("check-in date cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidDateRange("check-out date must be after check-in date")
	}

	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		if domain.KindOf(err) == "" {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	if room.HotelID.Hex() != req.HotelID {
		return nil, domain.ErrRoomMismatch("room does not belong to the specified hotel")
	}

	// Steps below are the admission decision proper; one per room at a time.
	lock := s.admission.forRoom(req.RoomID)
	lock.Lock()
	defer lock.Unlock()

	available, err := s.availability.IsAvailable(ctx, req.RoomID, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !available {
		return nil, domain.ErrRoomUnavailable("room is not available for the selected dates")
	}

	if req.NumberOfGuests > room.MaxOccupancy {
		return nil, domain.ErrOccupancyExceeded(
			fmt.Sprintf("room accommodates at most %d guests", room.MaxOccupancy))
	}

	quote, err := s.availability.QuotePrice(ctx, req.RoomID, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	taxes := roundMoney(quote.Subtotal * s.taxRate)
	serviceFees := roundMoney(quote.Subtotal * s.serviceFeeRate)
	pricing := data.Pricing{
		RoomRate:       quote.RoomRate,
		NumberOfNights: quote.NumberOfNights,
		Subtotal:       quote.Subtotal,
		Taxes:          taxes,
		ServiceFees:    serviceFees,
		Total:          quote.Subtotal + taxes + serviceFees,
	}

	reference, err := s.uniqueReference(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	payment, err := s.payments.Charge(ctx, req.Payment.Method, pricing.Total, reference)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	createdAt := s.now().UTC()
	booking := &data.Booking{
		BookingReference: reference,
		UserID:           userID,
		HotelID:          room.HotelID,
		RoomID:           room.ID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		NumberOfGuests:   req.NumberOfGuests,
		GuestDetails:     req.GuestDetails,
		SpecialRequests:  req.SpecialRequests,
		Pricing:          pricing,
		Payment:          *payment,
		Status:           data.Confirmed,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	booking, err = s.bookings.Insert(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.emitEvent(ctx, "booking_created", booking)
	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(booking); err != nil {
			s.logger.WithFields(logrus.Fields{"reference": booking.BookingReference}).
				Warn("Could not send confirmation email: ", err)
		}
	}

	return booking, nil
}

// CancelBooking frees the booking's interval for future admissions. Only the
// booking's owner or an administrator may cancel, and only once: a booking
// already cancelled or completed reports AlreadyTerminal so a refund can
// never be issued twice.
func (s *BookingServiceImpl) CancelBooking(ctx context.Context, bookingID, userID string, role data.UserRole, reason string) (*data.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CancelBooking")
	defer span.End()

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if domain.KindOf(err) == "" {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}

	if !CanAccessBooking(userID, role, booking.UserID) {
		return nil, domain.ErrPermissionDenied("only the booking owner or an administrator can cancel a booking")
	}
	if booking.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal(
			fmt.Sprintf("booking is already %s", booking.Status))
	}

	cancelledAt := s.now().UTC()
	fields := map[string]interface{}{
		"status":              data.Cancelled,
		"cancellation_reason": reason,
		"cancelled_at":        cancelledAt,
		"payment.status":      data.PaymentRefunded,
		"updated_at":          cancelledAt,
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, fields); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if booking.Payment.Status == data.PaymentCompleted && booking.Payment.TransactionID != "" {
		if err := s.payments.Refund(ctx, booking.Payment.TransactionID); err != nil {
			s.logger.WithFields(logrus.Fields{"reference": booking.BookingReference}).
				Warn("Refund request failed, to be retried by the payment collaborator: ", err)
		}
	}

	booking.Status = data.Cancelled
	booking.CancellationReason = reason
	booking.CancelledAt = &cancelledAt
	booking.Payment.Status = data.PaymentRefunded
	booking.UpdatedAt = cancelledAt

	s.emitEvent(ctx, "booking_cancelled", booking)
	if s.notifier != nil {
		if err := s.notifier.BookingCancelled(booking); err != nil {
			s.logger.WithFields(logrus.Fields{"reference": booking.BookingReference}).
				Warn("Could not send cancellation email: ", err)
		}
	}

	return booking, nil
}

func (s *BookingServiceImpl) GetBooking(ctx context.Context, bookingID, userID string, role data.UserRole) (*data.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if domain.KindOf(err) == "" {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	if !CanAccessBooking(userID, role, booking.UserID) {
		return nil, domain.ErrPermissionDenied("only the booking owner or an administrator can view a booking")
	}
	return booking, nil
}

func (s *BookingServiceImpl) GetBookingsByUser(ctx context.Context, userID string) (data.Bookings, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetBookingsByUser")
	defer span.End()

	bookings, err := s.bookings.FindByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return bookings, nil
}

// uniqueReference builds a human-readable reference from the current date
// and a random suffix, retrying on the off chance of a collision. Exhausting
// the retries means the randomness source is broken, which is fatal.
func (s *BookingServiceImpl) uniqueReference(ctx context.Context) (string, error) {
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		reference := fmt.Sprintf("BK-%s-%s", s.now().UTC().Format("20060102"), suffix)

		existing, err := s.bookings.FindByReference(ctx, reference)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return reference, nil
		}
		s.logger.Warn("Booking reference collision on ", reference)
	}
	return "", fmt.Errorf("could not generate a unique booking reference after %d attempts", referenceAttempts)
}

func (s *BookingServiceImpl) emitEvent(ctx context.Context, name string, booking *data.Booking) {
	if s.events == nil {
		return
	}
	event := &data.BookingEvent{
		Event:     name,
		UserID:    booking.UserID,
		RoomID:    booking.RoomID.Hex(),
		BookingID: booking.ID.Hex(),
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		s.logger.Warn("Could not store booking event: ", err)
	}
}

func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
