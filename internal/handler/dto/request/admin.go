package request

import (
	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/handler/validation"
	"villa-reservation/internal/usecase/queries"
)

type AdminBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,bookingstatus"`
	From   string `form:"from" binding:"omitempty,isodate"`
	To     string `form:"to" binding:"omitempty,isodate"`
	After  string `form:"after"`
}

func (q AdminBookingsQuery) ToFilter() (queries.AdminBookingFilter, error) {
	var f queries.AdminBookingFilter
	if q.Status != "" {
		s, err := booking.ParseStatus(q.Status)
		if err != nil {
			return f, err
		}
		f.Status = &s
	}
	if q.From != "" {
		t, err := validation.ParseDate(q.From)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if q.To != "" {
		t, err := validation.ParseDate(q.To)
		if err != nil {
			return f, err
		}
		f.To = &t
	}
	return f, nil
}

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required,bookingstatus"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}
