package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"villa-reservation/internal/pkg/errs"
)

const SignatureHeader = "Payment-Signature"

// Verifier checks "t=<unix>,v1=<hex>" signatures where v1 is HMAC-SHA256 over
// "<t>.<raw body>" with the shared webhook secret.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &Verifier{secret: []byte(secret), tolerance: tolerance}
}

func (v *Verifier) Verify(payload []byte, header string, now time.Time) error {
	if len(v.secret) == 0 {
		return errs.Mark(errs.New("webhook secret is not configured"), errs.ErrInvalidSignature)
	}

	ts, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidSignature)
	}

	signedAt := time.Unix(ts, 0)
	if d := now.Sub(signedAt); d > v.tolerance || d < -v.tolerance {
		return errs.Mark(errs.Newf("signature timestamp outside tolerance (%s)", d.Round(time.Second)), errs.ErrInvalidSignature)
	}

	expected := computeSignature(v.secret, ts, payload)
	for _, s := range signatures {
		got, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return errs.Mark(errs.New("no matching signature"), errs.ErrInvalidSignature)
}

// Sign produces a header value for payload; the fake gateway in tests uses it.
func Sign(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	return "t=" + strconv.FormatInt(ts, 10) + ",v1=" + hex.EncodeToString(computeSignature([]byte(secret), ts, payload))
}

func computeSignature(secret []byte, ts int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, errs.New("missing signature header")
	}
	var (
		ts         int64
		haveTS     bool
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, nil, errs.New("invalid signature timestamp")
			}
			ts, haveTS = n, true
		case "v1":
			signatures = append(signatures, val)
		}
	}
	if !haveTS || len(signatures) == 0 {
		return 0, nil, errs.New("malformed signature header")
	}
	return ts, signatures, nil
}
