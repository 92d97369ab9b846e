//go:build unit || e2e

package builder

import (
	reqdto "villa-reservation/internal/handler/dto/request"
)

const (
	DefaultAdminEmail = "frontdesk@villa.example"
	// DefaultPassword matches the hash dbtest seeds for every fixture account.
	DefaultPassword = "password123"
)

// LoginBuilder assembles back-office login payloads.
type LoginBuilder struct {
	email    string
	password string
}

func NewLoginBuilder() *LoginBuilder {
	return &LoginBuilder{
		email:    DefaultAdminEmail,
		password: DefaultPassword,
	}
}

func (b *LoginBuilder) Email(email string) *LoginBuilder {
	b.email = email
	return b
}

func (b *LoginBuilder) Password(password string) *LoginBuilder {
	b.password = password
	return b
}

func (b *LoginBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    b.email,
		Password: b.password,
	}
}
