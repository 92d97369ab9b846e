package booking

import (
	"errors"
	"strings"

	"villa-reservation/internal/domain/user"
)

var ErrInvalidGuestContact = errors.New("guest contact requires a name and a valid email")

type GuestContact struct {
	name  string
	email user.Email
	phone string
}

func NewGuestContact(name, email, phone string) (GuestContact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GuestContact{}, ErrInvalidGuestContact
	}
	e, err := user.NewEmail(email)
	if err != nil {
		return GuestContact{}, errors.Join(ErrInvalidGuestContact, err)
	}
	return GuestContact{name: name, email: e, phone: strings.TrimSpace(phone)}, nil
}

func (g GuestContact) Name() string      { return g.name }
func (g GuestContact) Email() user.Email { return g.email }
func (g GuestContact) Phone() string     { return g.phone }

// OwnedBy compares against a raw requester email; malformed input never matches.
func (g GuestContact) OwnedBy(requesterEmail string) bool {
	e, err := user.NewEmail(requesterEmail)
	if err != nil {
		return false
	}
	return g.email.Equal(e)
}
