package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booking-service/data"
	"booking-service/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*data.Room
}

func newFakeRoomStore(rooms ...*data.Room) *fakeRoomStore {
	store := &fakeRoomStore{rooms: make(map[string]*data.Room)}
	for _, room := range rooms {
		store.rooms[room.ID.Hex()] = room
	}
	return store
}

func (f *fakeRoomStore) GetRoom(ctx context.Context, roomID string) (*data.Room, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, domain.ErrNotFound("room not found")
	}
	return room, nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*data.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*data.Booking)}
}

func (f *fakeBookingStore) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []data.BookingStatus) (data.Bookings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches data.Bookings
	for _, booking := range f.bookings {
		if booking.RoomID.Hex() != roomID {
			continue
		}
		statusMatch := false
		for _, status := range statuses {
			if booking.Status == status {
				statusMatch = true
				break
			}
		}
		if !statusMatch {
			continue
		}
		if data.IntervalsOverlap(booking.CheckInDate, booking.CheckOutDate, checkIn, checkOut) {
			matches = append(matches, booking)
		}
	}
	return matches, nil
}

func (f *fakeBookingStore) FindByReference(ctx context.Context, reference string) (*data.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.BookingReference == reference {
			return booking, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) FindByID(ctx context.Context, bookingID string) (*data.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, domain.ErrNotFound("booking not found")
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingStore) FindByUser(ctx context.Context, userID string) (data.Bookings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches data.Bookings
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			matches = append(matches, booking)
		}
	}
	return matches, nil
}

func (f *fakeBookingStore) Insert(ctx context.Context, booking *data.Booking) (*data.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	f.bookings[booking.ID.Hex()] = booking
	return booking, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, bookingID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return domain.ErrNotFound("booking not found")
	}
	for key, value := range fields {
		switch key {
		case "status":
			booking.Status = value.(data.BookingStatus)
		case "cancellation_reason":
			booking.CancellationReason = value.(string)
		case "cancelled_at":
			at := value.(time.Time)
			booking.CancelledAt = &at
		case "payment.status":
			booking.Payment.Status = value.(data.PaymentStatus)
		case "updated_at":
			booking.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

type fakePaymentClient struct {
	mu      sync.Mutex
	charges int
	refunds []string
}

func (f *fakePaymentClient) Charge(ctx context.Context, method string, amount float64, reference string) (*data.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.charges++
	return &data.Payment{
		Method:        method,
		Status:        data.PaymentCompleted,
		TransactionID: fmt.Sprintf("txn-%d", f.charges),
	}, nil
}

func (f *fakePaymentClient) Refund(ctx context.Context, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, transactionID)
	return nil
}

func (f *fakePaymentClient) refundCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.refunds)
}

type fakeEventStore struct {
	mu     sync.Mutex
	events []*data.BookingEvent
}

func (f *fakeEventStore) InsertEvent(ctx context.Context, event *data.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}
