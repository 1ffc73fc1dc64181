package api

import (
	"net/http"
	"time"

	resdto "slot-booking/internal/handler/dto/response"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
	clock               clock.Clock
	cfg                 config.BookingConfig
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries, clk clock.Clock, cfg config.BookingConfig) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
		clock:               clk,
		cfg:                 cfg,
	}
}

// @Summary List open slots
// @Description List slots with remaining capacity in a date range
// @Tags availability
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param to query string false "End date (YYYY-MM-DD), defaults to the booking horizon"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	now := h.clock.Now()
	from := now
	to := now.AddDate(0, 0, h.cfg.HorizonDays)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	views, err := h.availabilityQueries.OpenSlots(c.Request.Context(), from, to)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityViews(views))
}
