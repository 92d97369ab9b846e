//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/handler/api"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/middleware"
	"villa-reservation/internal/handler/validation"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"
	"villa-reservation/tests/common/builder"
	"villa-reservation/tests/common/httptest"
	"villa-reservation/tests/common/testutil"
	commandsmock "villa-reservation/tests/mock/commands"
	queriesmock "villa-reservation/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type stubValidator struct {
	id   uuid.UUID
	role user.Role
}

func (v stubValidator) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	if token != "valid-token" {
		return uuid.Nil, "", errs.New("invalid token")
	}
	return v.id, v.role, nil
}

type AdminHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockReports  *queriesmock.MockAdminQueries
	mockBookings *commandsmock.MockBookingCommands
	adminID      uuid.UUID
	role         user.Role
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(validation.Register())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockReports = queriesmock.NewMockAdminQueries(s.mockCtrl)
	s.mockBookings = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.adminID = uuid.New()
	s.role = user.RoleAdmin
	s.buildRouter()
}

func (s *AdminHandlerTestSuite) buildRouter() {
	s.router = gin.New()
	auth := middleware.NewAuthMiddleware(stubValidator{id: s.adminID, role: s.role})
	h := api.NewAdminHandler(s.mockReports, s.mockBookings)

	admin := s.router.Group("/admin", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleStaff))
	admin.GET("/bookings", h.ListBookings)
	admin.GET("/stats", h.Stats)
	admin.PATCH("/bookings/:id/status", auth.RequireRoleAtLeast(user.RoleAdmin), h.UpdateStatus)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) TestAccessControl() {
	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/stats", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 401 with an invalid token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/stats", nil, "forged")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: staff cannot override status", func() {
		s.role = user.RoleStaff
		s.buildRouter()
		defer func() { s.role = user.RoleAdmin; s.buildRouter() }()

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/admin/bookings/"+uuid.NewString()+"/status",
			map[string]any{"status": "cancelled"}, "valid-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

func (s *AdminHandlerTestSuite) TestListBookings() {
	b := builder.NewBookingBuilder(time.Now())

	s.Run("success: filters are parsed into the query", func() {
		s.mockReports.EXPECT().ListBookings(gomock.Any(), gomock.Any(), "cursor-1").
			DoAndReturn(func(_ any, f queries.AdminBookingFilter, _ string) (*queries.AdminBookingList, error) {
				s.Require().NotNil(f.Status)
				s.Equal(booking.StatusCompleted, *f.Status)
				s.Require().NotNil(f.From)
				s.Equal("2026-05-01", f.From.Format("2006-01-02"))
				s.Nil(f.To)
				return &queries.AdminBookingList{
					Bookings:   []queries.BookingView{*b.BuildView()},
					Stats:      &queries.AdminStats{Revenue: 500000, CountsByStatus: map[string]int64{"completed": 1}},
					NextCursor: "cursor-2",
				}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/admin/bookings?status=completed&from=2026-05-01&after=cursor-1", nil, "valid-token")

		var response resdto.AdminBookingsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Bookings, 1)
		s.Equal(int64(500000), response.Stats.Revenue)
		s.Equal(int64(1), response.Stats.CountsByStatus["completed"])
		s.Equal("cursor-2", response.NextCursor)
	})

	s.Run("error: unknown status filter", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/bookings?status=paid", nil, "valid-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *AdminHandlerTestSuite) TestStats() {
	s.mockReports.EXPECT().Stats(gomock.Any()).Return(&queries.AdminStats{
		Revenue: 900000, OccupancyRate: 0.5, OccupancyWindow: 30, OccupiedNights: 15, TotalBookings: 7,
	}, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/stats", nil, "valid-token")

	var response resdto.AdminStatsResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	s.InDelta(0.5, response.OccupancyRate, 0.0001)
	s.Equal(int64(15), response.OccupiedNights)
}

func (s *AdminHandlerTestSuite) TestUpdateStatus() {
	b := builder.NewBookingBuilder(time.Now())
	url := "/admin/bookings/" + b.ID.String() + "/status"
	reqBody := map[string]any{"status": "cancelled", "notes": "guest called"}

	s.Run("success: actor and notes are passed through", func() {
		view := b.BuildView()
		view.Status = "cancelled"
		notes := "guest called"
		s.mockBookings.EXPECT().UpdateStatus(gomock.Any(), b.ID, commands.UpdateStatusInput{
			Status: "cancelled", Notes: &notes, ActorID: s.adminID,
		}).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "valid-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for name, mutate := range map[string]func(map[string]any){
			"missing status": testutil.Field("status", nil),
			"unknown status": testutil.Field("status", "paid"),
		} {
			s.Run(name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, testutil.DtoMap(s.T(), reqBody, mutate), "valid-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "terminal booking", err: errs.ErrAlreadyTerminal, expectedStatus: http.StatusConflict},
			{name: "payment not verified", err: errs.ErrPaymentNotComplete, expectedStatus: http.StatusPaymentRequired},
			{name: "not found", err: errs.ErrNotFound, expectedStatus: http.StatusNotFound},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockBookings.EXPECT().UpdateStatus(gomock.Any(), b.ID, gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "valid-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}
