package routes

import (
	"booking-service/handlers"
	"booking-service/services"

	"github.com/gin-gonic/gin"
)

type BookingRouteHandler struct {
	bookingHandler handlers.BookingHandler
	bookingService services.BookingService
}

func NewBookingRouteHandler(bookingHandler handlers.BookingHandler, bookingService services.BookingService) BookingRouteHandler {
	return BookingRouteHandler{bookingHandler, bookingService}
}

func (rc *BookingRouteHandler) BookingRoute(rg *gin.RouterGroup) {
	router := rg.Group("/bookings")
	router.Use(handlers.ExtractTraceInfoMiddleware())
	router.POST("", rc.bookingHandler.CreateBooking)
	router.POST("/:id/cancel", rc.bookingHandler.CancelBooking)
	router.GET("/:id", rc.bookingHandler.GetBooking)
	router.GET("", rc.bookingHandler.GetMyBookings)

	rooms := rg.Group("/rooms")
	rooms.Use(handlers.ExtractTraceInfoMiddleware())
	rooms.GET("/:roomId/availability", rc.bookingHandler.CheckAvailability)
}
