package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"bookingengine/internal/domain"
	"bookingengine/internal/metrics"
	"bookingengine/internal/usecase"
	"github.com/gin-gonic/gin"
)

type bookingUsecaser interface {
	CreateBooking(ctx context.Context, userID, slot string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]*domain.Booking, error)
}

type BookingHandler struct {
	bookingUsecase bookingUsecaser
	logger         *slog.Logger
}

func NewBookingHandler(bookingUsecase bookingUsecaser, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		logger:         logger.With("component", "booking_handler"),
	}
}

type bookingResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Slot   string `json:"slot"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
}

// POST /bookings?slot=<RFC3339>
func (h *BookingHandler) Create(c *gin.Context) {
	slot := c.Query("slot")
	if slot == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSlot})
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(c.Request.Context(), c.GetString("userID"), slot)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSlot) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSlot})
			return
		}
		h.logger.Error("create booking", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.BookingsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, bookingResponse{
		ID:     booking.ID,
		UserID: booking.UserID,
		Slot:   booking.Slot,
	})
}

// GET /bookings
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookingUsecase.ListBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.Error("list bookings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := bookingListResponse{Bookings: make([]bookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, bookingResponse{
			ID:     b.ID,
			UserID: b.UserID,
			Slot:   b.Slot,
		})
	}
	c.JSON(http.StatusOK, resp)
}
