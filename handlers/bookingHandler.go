package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"booking-service/clients"
	"booking-service/data"
	"booking-service/domain"
	"booking-service/services"
	"booking-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type BookingHandler struct {
	bookingService      services.BookingService
	availabilityService services.AvailabilityService
	authClient          *clients.AuthClient
	logger              *logrus.Logger
	Tracer              trace.Tracer
}

func NewBookingHandler(bookingService services.BookingService, availabilityService services.AvailabilityService,
	authClient *clients.AuthClient, logger *logrus.Logger, tracer trace.Tracer) BookingHandler {
	return BookingHandler{
		bookingService:      bookingService,
		availabilityService: availabilityService,
		authClient:          authClient,
		logger:              logger,
		Tracer:              tracer,
	}
}

func (s *BookingHandler) CreateBooking(c *gin.Context) {
	spanCtx, span := s.Tracer.Start(c.Request.Context(), "BookingHandler.CreateBooking")
	defer span.End()

	currentUser, ok := s.currentUser(c, spanCtx, span)
	if !ok {
		return
	}

	var req data.CreateBookingRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		span.SetStatus(codes.Error, "Unable to decode json")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to decode json"})
		return
	}
	if err := utils.ValidateCreateBookingRequest(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := s.bookingService.CreateBooking(spanCtx, &req, currentUser.ID)
	if err != nil {
		s.writeError(c, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking successfully created")
	c.JSON(http.StatusCreated, booking)
}

func (s *BookingHandler) CancelBooking(c *gin.Context) {
	spanCtx, span := s.Tracer.Start(c.Request.Context(), "BookingHandler.CancelBooking")
	defer span.End()

	currentUser, ok := s.currentUser(c, spanCtx, span)
	if !ok {
		return
	}

	bookingID := c.Param("id")

	var req data.CancelBookingRequest
	if c.Request.Body != nil {
		// Body is optional; an empty or absent body means no reason given.
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			span.SetStatus(codes.Error, "Unable to decode json")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to decode json"})
			return
		}
	}

	booking, err := s.bookingService.CancelBooking(spanCtx, bookingID, currentUser.ID, currentUser.Role, req.CancellationReason)
	if err != nil {
		s.writeError(c, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking successfully cancelled")
	c.JSON(http.StatusOK, booking)
}

func (s *BookingHandler) GetBooking(c *gin.Context) {
	spanCtx, span := s.Tracer.Start(c.Request.Context(), "BookingHandler.GetBooking")
	defer span.End()

	currentUser, ok := s.currentUser(c, spanCtx, span)
	if !ok {
		return
	}

	booking, err := s.bookingService.GetBooking(spanCtx, c.Param("id"), currentUser.ID, currentUser.Role)
	if err != nil {
		s.writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (s *BookingHandler) GetMyBookings(c *gin.Context) {
	spanCtx, span := s.Tracer.Start(c.Request.Context(), "BookingHandler.GetMyBookings")
	defer span.End()

	currentUser, ok := s.currentUser(c, spanCtx, span)
	if !ok {
		return
	}

	bookings, err := s.bookingService.GetBookingsByUser(spanCtx, currentUser.ID)
	if err != nil {
		s.writeError(c, span, err)
		return
	}
	if bookings == nil {
		bookings = data.Bookings{}
	}
	c.JSON(http.StatusOK, bookings)
}

// CheckAvailability is the public room-search probe; no identity required.
func (s *BookingHandler) CheckAvailability(c *gin.Context) {
	spanCtx, span := s.Tracer.Start(c.Request.Context(), "BookingHandler.CheckAvailability")
	defer span.End()

	checkIn, err := data.ParseDate(c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkIn must be a valid YYYY-MM-DD date", "code": domain.InvalidDateRange})
		return
	}
	checkOut, err := data.ParseDate(c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOut must be a valid YYYY-MM-DD date", "code": domain.InvalidDateRange})
		return
	}
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOut must be after checkIn", "code": domain.InvalidDateRange})
		return
	}

	available, err := s.availabilityService.IsAvailable(spanCtx, c.Param("roomId"), checkIn, checkOut)
	if err != nil {
		s.writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (s *BookingHandler) currentUser(c *gin.Context, ctx context.Context, span trace.Span) (*clients.CurrentUser, bool) {
	token := c.GetHeader("Authorization")

	timeout := 5 * time.Second
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	currentUser, err := s.authClient.GetCurrentUser(reqCtx, token)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			span.SetStatus(codes.Error, "Circuit is open. Authorization service is not available.")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authorization service is not available."})
			return nil, false
		}
		if errors.Is(err, clients.ErrUnauthorized) {
			span.SetStatus(codes.Error, "Unauthorized")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return nil, false
		}
		if reqCtx.Err() == context.DeadlineExceeded {
			span.SetStatus(codes.Error, "Authorization service is not available.")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authorization service is not available."})
			return nil, false
		}
		span.SetStatus(codes.Error, "Error performing authorization request")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error performing authorization request"})
		return nil, false
	}
	return currentUser, true
}

// writeError maps a booking error kind to its HTTP status. Anything without
// a kind is an infrastructure failure and surfaces as a 500.
func (s *BookingHandler) writeError(c *gin.Context, span trace.Span, err error) {
	span.SetStatus(codes.Error, err.Error())

	kind := domain.KindOf(err)
	switch kind {
	case domain.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": kind})
	case domain.PermissionDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": kind})
	case "":
		s.logger.Error("Internal error: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": kind})
	}
}

func ExtractTraceInfoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
