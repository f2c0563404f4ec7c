package data

import (
	"encoding/json"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	Confirmed BookingStatus = "confirmed"
	Completed BookingStatus = "completed"
	Cancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type UserRole string

const (
	Guest UserRole = "Guest"
	Host  UserRole = "Host"
	Admin UserRole = "Admin"
)

type GuestDetails struct {
	FullName         string   `bson:"full_name" json:"fullName" binding:"required"`
	Email            string   `bson:"email" json:"email" binding:"required,email"`
	Phone            string   `bson:"phone" json:"phone" binding:"required"`
	AdditionalGuests []string `bson:"additional_guests,omitempty" json:"additionalGuests,omitempty"`
}

// Pricing is the snapshot taken at admission time. It never tracks later
// changes to the room's rate.
type Pricing struct {
	RoomRate       float64 `bson:"room_rate" json:"roomRate"`
	NumberOfNights int     `bson:"number_of_nights" json:"numberOfNights"`
	Subtotal       float64 `bson:"subtotal" json:"subtotal"`
	Taxes          float64 `bson:"taxes" json:"taxes"`
	ServiceFees    float64 `bson:"service_fees" json:"serviceFees"`
	Total          float64 `bson:"total" json:"total"`
}

type Payment struct {
	Method        string        `bson:"method" json:"method"`
	Status        PaymentStatus `bson:"status" json:"status"`
	TransactionID string        `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
}

type Booking struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingReference   string             `bson:"booking_reference" json:"bookingReference"`
	UserID             string             `bson:"user_id" json:"userId"`
	HotelID            primitive.ObjectID `bson:"hotel_id" json:"hotelId"`
	RoomID             primitive.ObjectID `bson:"room_id" json:"roomId"`
	CheckInDate        time.Time          `bson:"check_in_date" json:"checkInDate"`
	CheckOutDate       time.Time          `bson:"check_out_date" json:"checkOutDate"`
	NumberOfGuests     int                `bson:"number_of_guests" json:"numberOfGuests"`
	GuestDetails       GuestDetails       `bson:"guest_details" json:"guestDetails"`
	SpecialRequests    string             `bson:"special_requests,omitempty" json:"specialRequests,omitempty"`
	Pricing            Pricing            `bson:"pricing" json:"pricing"`
	Payment            Payment            `bson:"payment" json:"payment"`
	Status             BookingStatus      `bson:"status" json:"status"`
	CancellationReason string             `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time         `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Bookings []*Booking

// CreateBookingRequest is the POST /api/bookings body. Dates travel as
// YYYY-MM-DD strings and are parsed by the admission service so that a
// malformed date surfaces as InvalidDateRange, not a bind error.
type CreateBookingRequest struct {
	HotelID         string       `json:"hotelId" binding:"required"`
	RoomID          string       `json:"roomId" binding:"required"`
	CheckInDate     string       `json:"checkInDate" binding:"required"`
	CheckOutDate    string       `json:"checkOutDate" binding:"required"`
	NumberOfGuests  int          `json:"numberOfGuests" binding:"required,min=1"`
	GuestDetails    GuestDetails `json:"guestDetails" binding:"required"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	Payment         struct {
		Method string `json:"method" binding:"required"`
	} `json:"payment" binding:"required"`
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason,omitempty"`
}

// PriceQuote is the evaluator's answer to "what would this stay cost",
// before taxes and fees are applied by the admission service.
type PriceQuote struct {
	RoomRate       float64 `json:"roomRate"`
	NumberOfNights int     `json:"numberOfNights"`
	Subtotal       float64 `json:"subtotal"`
}

// BookingEvent is the append-only record pushed to the event store for the
// analytics collaborator.
type BookingEvent struct {
	Event     string
	UserID    string
	RoomID    string
	BookingID string
}

func (b *Booking) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(b)
}

func (b *Booking) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(b)
}

func (bookings Bookings) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(bookings)
}

// IsTerminal reports whether the booking can no longer be cancelled.
func (b *Booking) IsTerminal() bool {
	return b.Status == Cancelled || b.Status == Completed
}
