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

type CheckoutHandler struct {
	holdCommands    commands.HoldCommands
	paymentCommands commands.PaymentCommands
	bookingQueries  queries.BookingQueries
}

func NewCheckoutHandler(
	holdCommands commands.HoldCommands,
	paymentCommands commands.PaymentCommands,
	bookingQueries queries.BookingQueries,
) *CheckoutHandler {
	return &CheckoutHandler{
		holdCommands:    holdCommands,
		paymentCommands: paymentCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Place holds
// @Description Reserve the requested slots for a checkout session, all or nothing
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.PlaceHoldsRequest true "Slots to hold"
// @Success 201 {object} resdto.PlaceHoldsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkout/holds [post]
func (h *CheckoutHandler) PlaceHolds(c *gin.Context) {
	var req reqdto.PlaceHoldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	keys, err := req.Keys()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot selection"})
		return
	}

	result, err := h.holdCommands.PlaceHolds(c.Request.Context(), req.SessionID, keys)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrEmptySelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No slots selected"})
		case errs.Is(err, errs.ErrSlotInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slot date is in the past"})
		case errs.Is(err, errs.ErrSlotOutOfHorizon):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slot date is beyond the booking horizon"})
		case errs.Is(err, errs.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "One or more slots do not exist"})
		case errs.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		case errs.Is(err, errs.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": "One or more slots are no longer available"})
		case errs.Is(err, errs.ErrSessionTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Checkout session already finished"})
		case errs.Is(err, errs.ErrIntentAlreadyBound):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already started for this session"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPlaceHoldsResult(result))
}

// @Summary Release holds
// @Description Drop all holds owned by the session
// @Tags checkout
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /checkout/holds/{sessionId} [delete]
func (h *CheckoutHandler) ReleaseHolds(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	if err := h.holdCommands.ReleaseHolds(c.Request.Context(), sessionID); err != nil {
		switch {
		case errs.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Create payment intent
// @Description Open a payment intent for the session's held slots at the server-computed amount
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CreateIntentRequest true "Session reference"
// @Success 201 {object} resdto.PaymentIntentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /checkout/payment-intent [post]
func (h *CheckoutHandler) CreatePaymentIntent(c *gin.Context) {
	var req reqdto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.paymentCommands.CreateIntent(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		case errs.Is(err, errs.ErrNoActiveHolds):
			c.JSON(http.StatusConflict, gin.H{"error": "Session has no active holds"})
		case errs.Is(err, errs.ErrHoldExpired):
			c.JSON(http.StatusConflict, gin.H{"error": "One or more holds expired before payment could start"})
		case errs.Is(err, errs.ErrSessionTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Checkout session already finished"})
		case errs.Is(err, errs.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not ready for payment"})
		case errs.Is(err, errs.ErrPaymentStatusUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment processor is unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromIntentResult(result))
}

// @Summary Refresh payment status
// @Description Poll the processor for the session's intent and advance the session state
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshPaymentRequest true "Session reference"
// @Success 200 {object} resdto.PaymentStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /checkout/payment-intent/refresh [post]
func (h *CheckoutHandler) RefreshPaymentStatus(c *gin.Context) {
	var req reqdto.RefreshPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.paymentCommands.RefreshStatus(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		case errs.Is(err, errs.ErrPaymentIntentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session has no payment intent"})
		case errs.Is(err, errs.ErrPaymentStatusUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment processor is unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromRefreshResult(result))
}

// @Summary Get checkout session
// @Description Get the session state and its active holds
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /checkout/sessions/{id} [get]
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	view, err := h.bookingQueries.SessionByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}
