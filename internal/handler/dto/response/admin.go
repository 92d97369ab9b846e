package response

import (
	"time"

	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type AdminStatsResponse struct {
	Revenue         int64            `json:"revenue"`
	OccupancyRate   float64          `json:"occupancyRate"`
	OccupancyWindow int              `json:"occupancyWindowDays"`
	OccupiedNights  int64            `json:"occupiedNights"`
	CountsByStatus  map[string]int64 `json:"countsByStatus"`
	TotalBookings   int64            `json:"totalBookings"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

func FromAdminStats(s *queries.AdminStats) (AdminStatsResponse, error) {
	var out AdminStatsResponse
	if s == nil {
		return out, nil
	}
	if err := copier.CopyWithOption(&out, s, copier.Option{DeepCopy: true}); err != nil {
		return AdminStatsResponse{}, errs.Wrap(err, "render admin stats")
	}
	return out, nil
}

type AdminBookingsResponse struct {
	Bookings   []BookingResponse  `json:"bookings"`
	Stats      AdminStatsResponse `json:"stats"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

func FromAdminBookingList(l *queries.AdminBookingList) (AdminBookingsResponse, error) {
	bookings, err := FromBookingViews(l.Bookings)
	if err != nil {
		return AdminBookingsResponse{}, err
	}
	stats, err := FromAdminStats(l.Stats)
	if err != nil {
		return AdminBookingsResponse{}, err
	}
	return AdminBookingsResponse{
		Bookings:   bookings,
		Stats:      stats,
		NextCursor: l.NextCursor,
	}, nil
}
