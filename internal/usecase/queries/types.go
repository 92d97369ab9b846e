package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView is the read model returned to guests and the admin surface.
type BookingView struct {
	ID               uuid.UUID  `json:"id"`
	CheckIn          time.Time  `json:"check_in"`
	CheckOut         time.Time  `json:"check_out"`
	Adults           int        `json:"adults"`
	Children         int        `json:"children"`
	GuestName        string     `json:"guest_name"`
	GuestEmail       string     `json:"guest_email"`
	GuestPhone       *string    `json:"guest_phone,omitempty"`
	SpecialRequests  *string    `json:"special_requests,omitempty"`
	TotalAmount      int64      `json:"total_amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	ConfirmationCode string     `json:"confirmation_code"`
	IntentRef        *string    `json:"intent_ref,omitempty"`
	RefundAmount     *int64     `json:"refund_amount,omitempty"`
	AdminNotes       *string    `json:"admin_notes,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// OccupancyView is the minimum needed to reason about held dates.
type OccupancyView struct {
	ID       uuid.UUID `json:"id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Status   string    `json:"status"`
}

type ProfileView struct {
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Phone         *string     `json:"phone,omitempty"`
	TotalBookings int         `json:"total_bookings"`
	BookingIDs    []uuid.UUID `json:"booking_ids"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type AdminAccountView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
