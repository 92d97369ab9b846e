//go:build unit

package gateway_test

import (
	"testing"
	"time"

	"villa-reservation/internal/infra/gateway"
	"villa-reservation/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestVerifier_Verify(t *testing.T) {
	const secret = "whsec_test"
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	v := gateway.NewVerifier(secret, 5*time.Minute)

	tests := []struct {
		name    string
		payload []byte
		header  string
		wantErr bool
	}{
		{name: "valid", payload: payload, header: gateway.Sign(secret, payload, now)},
		{name: "valid within tolerance", payload: payload, header: gateway.Sign(secret, payload, now.Add(-4*time.Minute))},
		{name: "extra signature accepted", payload: payload, header: gateway.Sign(secret, payload, now) + ",v1=deadbeef"},
		{name: "tampered body", payload: []byte(`{"id":"evt_2"}`), header: gateway.Sign(secret, payload, now), wantErr: true},
		{name: "wrong secret", payload: payload, header: gateway.Sign("other", payload, now), wantErr: true},
		{name: "stale timestamp", payload: payload, header: gateway.Sign(secret, payload, now.Add(-10*time.Minute)), wantErr: true},
		{name: "future timestamp", payload: payload, header: gateway.Sign(secret, payload, now.Add(10*time.Minute)), wantErr: true},
		{name: "missing header", payload: payload, header: "", wantErr: true},
		{name: "no v1", payload: payload, header: "t=1700000000", wantErr: true},
		{name: "bad timestamp", payload: payload, header: "t=abc,v1=00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.payload, tt.header, now)
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrInvalidSignature), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVerifier_NoSecret(t *testing.T) {
	now := time.Now()
	err := gateway.NewVerifier("", 0).Verify([]byte("{}"), gateway.Sign("", []byte("{}"), now), now)
	assert.True(t, errs.Is(err, errs.ErrInvalidSignature))
}
