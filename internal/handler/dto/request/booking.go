package request

import (
	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/handler/validation"
	"villa-reservation/internal/usecase/commands"
)

type CreateBookingRequest struct {
	CheckIn         string `json:"checkIn" binding:"required,isodate"`
	CheckOut        string `json:"checkOut" binding:"required,isodate"`
	Adults          int    `json:"adults" binding:"required,min=1"`
	Children        int    `json:"children" binding:"min=0"`
	GuestName       string `json:"guestName" binding:"required,max=200"`
	GuestEmail      string `json:"guestEmail" binding:"required,email"`
	GuestPhone      string `json:"guestPhone" binding:"omitempty,max=50"`
	SpecialRequests string `json:"specialRequests" binding:"omitempty,max=2000"`
}

func (r CreateBookingRequest) ToInput() (commands.CreateBookingInput, error) {
	checkIn, err := validation.ParseDate(r.CheckIn)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	checkOut, err := validation.ParseDate(r.CheckOut)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	return commands.CreateBookingInput{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          r.Adults,
		Children:        r.Children,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

type CancelBookingRequest struct {
	GuestEmail string `json:"guestEmail" binding:"required,email"`
}

type UserBookingsQuery struct {
	GuestEmail string `form:"guestEmail" binding:"required,email"`
}

type AvailabilityQuery struct {
	CheckIn  string `form:"checkIn" binding:"required,isodate"`
	CheckOut string `form:"checkOut" binding:"required,isodate"`
}

func (q AvailabilityQuery) ToRange() (booking.DateRange, error) {
	checkIn, err := validation.ParseDate(q.CheckIn)
	if err != nil {
		return booking.DateRange{}, err
	}
	checkOut, err := validation.ParseDate(q.CheckOut)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(checkIn, checkOut)
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}
