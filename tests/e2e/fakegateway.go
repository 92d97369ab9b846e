//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"villa-reservation/internal/domain/payment"
	"villa-reservation/internal/infra/gateway"
)

type fakeIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type fakeRefund struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

// FakeGateway is an in-process stand-in for the payment provider's REST API. It honours
// Idempotency-Key so retried requests return the original object.
type FakeGateway struct {
	srv *httptest.Server

	mu          sync.Mutex
	seq         int
	intents     map[string]*fakeIntent
	refunds     []fakeRefund
	idempotency map[string]any
	down        bool
}

func NewFakeGateway(t *testing.T) *FakeGateway {
	g := &FakeGateway{}
	g.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents", g.createIntent)
	mux.HandleFunc("GET /v1/payment_intents/{id}", g.retrieveIntent)
	mux.HandleFunc("POST /v1/payment_intents/{id}/cancel", g.cancelIntent)
	mux.HandleFunc("POST /v1/refunds", g.createRefund)
	g.srv = httptest.NewServer(g.guard(mux))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *FakeGateway) URL() string { return g.srv.URL }

func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents = map[string]*fakeIntent{}
	g.refunds = nil
	g.idempotency = map[string]any{}
	g.down = false
}

// SetDown makes every call answer 503.
func (g *FakeGateway) SetDown(down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.down = down
}

// SetStatus moves an intent, as a customer completing checkout would.
func (g *FakeGateway) SetStatus(ref string, status payment.IntentStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in, ok := g.intents[ref]; ok {
		in.Status = string(status)
	}
}

func (g *FakeGateway) Status(ref string) payment.IntentStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in, ok := g.intents[ref]; ok {
		return payment.IntentStatus(in.Status)
	}
	return ""
}

func (g *FakeGateway) Refunds() []fakeRefund {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]fakeRefund(nil), g.refunds...)
}

func (g *FakeGateway) IntentCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.intents)
}

// SignedEvent renders a webhook body for ref and the matching signature header.
func (g *FakeGateway) SignedEvent(eventID, eventType, ref, secret string) ([]byte, string) {
	g.mu.Lock()
	in := g.intents[ref]
	g.mu.Unlock()

	obj := map[string]any{"id": ref}
	if in != nil {
		obj["amount"] = in.Amount
		obj["metadata"] = in.Metadata
	}
	body, _ := json.Marshal(map[string]any{
		"id":   eventID,
		"type": eventType,
		"data": map[string]any{"object": obj},
	})
	return body, gateway.Sign(secret, body, time.Now())
}

func (g *FakeGateway) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		down := g.down
		g.mu.Unlock()
		if down {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"error": map[string]string{"type": "api_error", "message": "unavailable"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *FakeGateway) createIntent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := r.Header.Get("Idempotency-Key")
	if prev, ok := g.idempotency[key]; ok && key != "" {
		writeJSON(w, http.StatusOK, prev)
		return
	}

	amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
	meta := map[string]string{}
	for k, v := range r.PostForm {
		if strings.HasPrefix(k, "metadata[") && strings.HasSuffix(k, "]") && len(v) > 0 {
			meta[strings.TrimSuffix(strings.TrimPrefix(k, "metadata["), "]")] = v[0]
		}
	}

	g.seq++
	id := fmt.Sprintf("pi_fake_%d", g.seq)
	in := &fakeIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       string(payment.IntentRequiresPaymentMethod),
		Amount:       amount,
		Currency:     r.PostForm.Get("currency"),
		Metadata:     meta,
	}
	g.intents[id] = in
	snapshot := *in
	if key != "" {
		g.idempotency[key] = snapshot
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (g *FakeGateway) retrieveIntent(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"type": "invalid_request_error", "code": "resource_missing"},
		})
		return
	}
	writeJSON(w, http.StatusOK, *in)
}

// cancelIntent refuses intents that already settled, as the real provider does.
func (g *FakeGateway) cancelIntent(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"type": "invalid_request_error", "code": "resource_missing"},
		})
		return
	}
	if payment.IntentStatus(in.Status) == payment.IntentSucceeded {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{"type": "invalid_request_error", "code": "payment_intent_unexpected_state",
				"message": "intent has already succeeded"},
		})
		return
	}
	in.Status = string(payment.IntentCanceled)
	writeJSON(w, http.StatusOK, *in)
}

func (g *FakeGateway) createRefund(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := r.Header.Get("Idempotency-Key")
	if prev, ok := g.idempotency[key]; ok && key != "" {
		writeJSON(w, http.StatusOK, prev)
		return
	}

	amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
	g.seq++
	ref := fakeRefund{
		ID:            fmt.Sprintf("re_fake_%d", g.seq),
		PaymentIntent: r.PostForm.Get("payment_intent"),
		Amount:        amount,
		Status:        "succeeded",
	}
	g.refunds = append(g.refunds, ref)
	if key != "" {
		g.idempotency[key] = ref
	}
	writeJSON(w, http.StatusOK, ref)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
