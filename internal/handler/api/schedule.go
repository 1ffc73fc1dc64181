package api

import (
	"net/http"

	reqdto "slot-booking/internal/handler/dto/request"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleCommands commands.ScheduleCommands
}

func NewScheduleHandler(scheduleCommands commands.ScheduleCommands) *ScheduleHandler {
	return &ScheduleHandler{scheduleCommands: scheduleCommands}
}

// @Summary Upsert slots
// @Description Create or reshape capacity records for the schedule
// @Tags admin
// @Accept json
// @Produce json
// @Param request body reqdto.UpsertSlotsRequest true "Slot definitions"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /admin/slots [post]
func (h *ScheduleHandler) UpsertSlots(c *gin.Context) {
	var req reqdto.UpsertSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entries, err := req.Entries()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot definition"})
		return
	}

	if err := h.scheduleCommands.UpsertSlots(c.Request.Context(), entries); err != nil {
		switch {
		case errs.Is(err, errs.ErrEmptySelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No slots provided"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
