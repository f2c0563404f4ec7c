package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"booking-service/clients"
	"booking-service/data"
	"booking-service/domain"
	"booking-service/handlers"
	"booking-service/routes"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

type stubBookingService struct {
	createErr error
	cancelErr error
	booking   *data.Booking
}

func (s *stubBookingService) CreateBooking(ctx context.Context, req *data.CreateBookingRequest, userID string) (*data.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.booking, nil
}

func (s *stubBookingService) CancelBooking(ctx context.Context, bookingID, userID string, role data.UserRole, reason string) (*data.Booking, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.booking, nil
}

func (s *stubBookingService) GetBooking(ctx context.Context, bookingID, userID string, role data.UserRole) (*data.Booking, error) {
	return s.booking, nil
}

func (s *stubBookingService) GetBookingsByUser(ctx context.Context, userID string) (data.Bookings, error) {
	if s.booking == nil {
		return nil, nil
	}
	return data.Bookings{s.booking}, nil
}

type stubAvailabilityService struct {
	available bool
}

func (s *stubAvailabilityService) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	return s.available, nil
}

func (s *stubAvailabilityService) QuotePrice(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*data.PriceQuote, error) {
	return &data.PriceQuote{RoomRate: 200, NumberOfNights: 3, Subtotal: 600}, nil
}

// authStub imitates the auth service's currentUser endpoint.
func authStub(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/currentUser" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"user":{"id":"guest-1","userRole":"Guest"},"message":"ok"}`)
	}))
}

func buildTestRouter(bookingSvc *stubBookingService, availabilitySvc *stubAvailabilityService, authURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tracer := otel.Tracer("test")

	authClient := clients.NewAuthClient(authURL, tracer)
	handler := handlers.NewBookingHandler(bookingSvc, availabilitySvc, authClient, logger, tracer)
	routeHandler := routes.NewBookingRouteHandler(handler, bookingSvc)

	engine := gin.New()
	group := engine.Group("/api")
	routeHandler.BookingRoute(group)
	return engine
}

func sampleBooking() *data.Booking {
	checkIn, _ := data.ParseDate("2024-06-01")
	checkOut, _ := data.ParseDate("2024-06-04")
	return &data.Booking{
		ID:               primitive.NewObjectID(),
		BookingReference: "BK-20240601-1A2B3C4D",
		UserID:           "guest-1",
		HotelID:          primitive.NewObjectID(),
		RoomID:           primitive.NewObjectID(),
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		NumberOfGuests:   2,
		Pricing:          data.Pricing{RoomRate: 200, NumberOfNights: 3, Subtotal: 600, Taxes: 60, ServiceFees: 30, Total: 690},
		Payment:          data.Payment{Method: "card", Status: data.PaymentCompleted},
		Status:           data.Confirmed,
	}
}

const createBody = `{
	"hotelId": "652f8b2d9a1e4c0012345678",
	"roomId": "652f8b2d9a1e4c0087654321",
	"checkInDate": "2024-06-01",
	"checkOutDate": "2024-06-04",
	"numberOfGuests": 2,
	"guestDetails": {"fullName": "Ana Petrovic", "email": "ana@example.com", "phone": "+38164123456"},
	"payment": {"method": "card"}
}`

func TestCreateBookingReturnsCreated(t *testing.T) {
	auth := authStub(http.StatusOK)
	defer auth.Close()

	router := buildTestRouter(&stubBookingService{booking: sampleBooking()}, &stubAvailabilityService{available: true}, auth.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", resp.Code, resp.Body.String())
	}

	var booking data.Booking
	if err := json.Unmarshal(resp.Body.Bytes(), &booking); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if booking.BookingReference == "" {
		t.Fatal("response missing bookingReference")
	}
	if booking.Status != data.Confirmed {
		t.Fatalf("status = %s, want confirmed", booking.Status)
	}
}

func TestCreateBookingValidatesBody(t *testing.T) {
	auth := authStub(http.StatusOK)
	defer auth.Close()

	router := buildTestRouter(&stubBookingService{booking: sampleBooking()}, &stubAvailabilityService{available: true}, auth.URL)

	// Missing guestDetails.email fails structural validation before the
	// service is ever consulted.
	body := `{"hotelId":"a","roomId":"b","checkInDate":"2024-06-01","checkOutDate":"2024-06-04","numberOfGuests":2,"guestDetails":{"fullName":"Ana","phone":"1"},"payment":{"method":"card"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestCreateBookingErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   domain.ErrorKind
	}{
		{"unavailable", domain.ErrRoomUnavailable("room is not available for the selected dates"), http.StatusBadRequest, domain.RoomUnavailable},
		{"invalid dates", domain.ErrInvalidDateRange("check-in date cannot be in the past"), http.StatusBadRequest, domain.InvalidDateRange},
		{"occupancy", domain.ErrOccupancyExceeded("room accommodates at most 2 guests"), http.StatusBadRequest, domain.OccupancyExceeded},
		{"mismatch", domain.ErrRoomMismatch("room does not belong to the specified hotel"), http.StatusBadRequest, domain.RoomMismatch},
		{"not found", domain.ErrNotFound("room not found"), http.StatusNotFound, domain.NotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := authStub(http.StatusOK)
			defer auth.Close()

			router := buildTestRouter(&stubBookingService{createErr: tc.err}, &stubAvailabilityService{}, auth.URL)

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody))
			req.Header.Set("Authorization", "Bearer token")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantStatus)
			}
			var body struct {
				Code domain.ErrorKind `json:"code"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if body.Code != tc.wantCode {
				t.Fatalf("code = %s, want %s", body.Code, tc.wantCode)
			}
		})
	}
}

func TestCancelBookingErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.ErrNotFound("booking not found"), http.StatusNotFound},
		{"permission denied", domain.ErrPermissionDenied("only the booking owner or an administrator can cancel a booking"), http.StatusForbidden},
		{"already terminal", domain.ErrAlreadyTerminal("booking is already cancelled"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := authStub(http.StatusOK)
			defer auth.Close()

			router := buildTestRouter(&stubBookingService{cancelErr: tc.err}, &stubAvailabilityService{}, auth.URL)

			req := httptest.NewRequest(http.MethodPost, "/api/bookings/652f8b2d9a1e4c0012345678/cancel",
				strings.NewReader(`{"cancellationReason":"test"}`))
			req.Header.Set("Authorization", "Bearer token")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantStatus)
			}
		})
	}
}

func TestEndpointsRejectUnauthenticated(t *testing.T) {
	auth := authStub(http.StatusUnauthorized)
	defer auth.Close()

	router := buildTestRouter(&stubBookingService{booking: sampleBooking()}, &stubAvailabilityService{}, auth.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	auth := authStub(http.StatusOK)
	defer auth.Close()

	router := buildTestRouter(&stubBookingService{}, &stubAvailabilityService{available: true}, auth.URL)

	req := httptest.NewRequest(http.MethodGet,
		"/api/rooms/652f8b2d9a1e4c0087654321/availability?checkIn=2024-06-01&checkOut=2024-06-04", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !body.Available {
		t.Fatal("expected available=true")
	}
}

func TestCheckAvailabilityRejectsBadDates(t *testing.T) {
	auth := authStub(http.StatusOK)
	defer auth.Close()

	router := buildTestRouter(&stubBookingService{}, &stubAvailabilityService{}, auth.URL)

	cases := []string{
		"/api/rooms/r1/availability?checkIn=junk&checkOut=2024-06-04",
		"/api/rooms/r1/availability?checkIn=2024-06-04&checkOut=2024-06-04",
		"/api/rooms/r1/availability?checkIn=2024-06-05&checkOut=2024-06-04",
	}
	for _, url := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", url, resp.Code)
		}
	}
}
