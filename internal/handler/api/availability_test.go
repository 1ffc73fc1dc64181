//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"slot-booking/internal/handler/api"
	resdto "slot-booking/internal/handler/dto/response"
	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/tests/common/httptest"
	queriesmock "slot-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	clock       *clock.MockClock
	handler     *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC))
	s.handler = api.NewAvailabilityHandler(s.mockQueries, s.clock, config.BookingConfig{HorizonDays: 90})

	s.router.GET("/availability", s.handler.GetAvailability)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestGetAvailability() {
	s.Run("success: returns open slots for an explicit range", func() {
		from := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
		views := []readstore.SlotAvailabilityView{
			{SlotID: uuid.New(), Date: from, TimeLabel: "09:00", Remaining: 2, PriceCents: 1000},
		}
		s.mockQueries.EXPECT().OpenSlots(gomock.Any(), from, to).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?from=2025-05-11&to=2025-05-12", nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Slots, 1)
		s.Equal("09:00", body.Slots[0].TimeLabel)
		s.Equal(2, body.Slots[0].Remaining)
	})

	s.Run("success: defaults to the full bookable window", func() {
		now := s.clock.Now()
		s.mockQueries.EXPECT().OpenSlots(gomock.Any(), now, now.AddDate(0, 0, 90)).
			Return([]readstore.SlotAvailabilityView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/availability", nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Slots)
	})

	s.Run("error: 400 on malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/availability?from=11-05-2025", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid from date")
	})

	s.Run("error: 400 on inverted range", func() {
		s.mockQueries.EXPECT().OpenSlots(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInvalidDateRange).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?from=2025-05-12&to=2025-05-11", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid date range")
	})
}
