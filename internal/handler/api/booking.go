package api

import (
	"net/http"

	reqdto "slot-booking/internal/handler/dto/request"
	resdto "slot-booking/internal/handler/dto/response"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/commands"
	"slot-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Confirm booking
// @Description Convert a settled payment intent into a permanent booking; idempotent per intent
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.ConfirmBookingRequest true "Confirmation request"
// @Success 200 {object} resdto.BookingResponse
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /bookings/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req reqdto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.bookingCommands.ConfirmBooking(c.Request.Context(), req.PaymentIntentID, req.CustomerRef)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrPaymentNotSettled):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment has not settled"})
		case errs.Is(err, errs.ErrPaymentFailed):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment failed or was canceled"})
		case errs.Is(err, errs.ErrPaymentIntentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment intent not found"})
		case errs.Is(err, errs.ErrHoldExpired):
			c.JSON(http.StatusConflict, gin.H{"error": "Holds expired before the booking was committed"})
		case errs.Is(err, errs.ErrSessionTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Checkout session already finished"})
		case errs.Is(err, errs.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": "Slot capacity is exhausted"})
		case errs.Is(err, errs.ErrPaymentStatusUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment processor is unavailable"})
		case errs.Is(err, errs.ErrEmptySelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingSnapshot(result.Booking, result.IsReplayed))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	view, err := h.bookingQueries.BookingByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
