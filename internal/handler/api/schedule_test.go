//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"slot-booking/internal/handler/api"
	"slot-booking/tests/common/httptest"
	commandsmock "slot-booking/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ScheduleHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockScheduleCommands
	handler      *api.ScheduleHandler
}

func (s *ScheduleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockScheduleCommands(s.mockCtrl)
	s.handler = api.NewScheduleHandler(s.mockCommands)

	s.router.POST("/admin/slots", s.handler.UpsertSlots)
}

func (s *ScheduleHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestScheduleHandlerSuite(t *testing.T) {
	suite.Run(t, new(ScheduleHandlerTestSuite))
}

func (s *ScheduleHandlerTestSuite) TestUpsertSlots() {
	url := "/admin/slots"

	validBody := map[string]any{
		"slots": []map[string]any{
			{"date": "2025-05-11", "timeLabel": "09:00", "totalCapacity": 3, "priceCents": 1000},
		},
	}

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().UpsertSlots(gomock.Any(), gomock.Len(1)).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validBody)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 on empty slot list", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"slots": []map[string]any{}})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 400 on malformed time label", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{
				"slots": []map[string]any{
					{"date": "2025-05-11", "timeLabel": "9am", "totalCapacity": 3, "priceCents": 1000},
				},
			})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid slot definition")
	})
}
