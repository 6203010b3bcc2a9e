package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"type":"payment_succeeded","payment_intent_id":"pi_123","metadata":{"request_id":"r1","customer_id":"c1"}}`)
	secret := "whsec_test_secret"

	if !VerifySignature(payload, sign(payload, secret), secret) {
		t.Error("valid signature rejected")
	}
}

func TestVerifySignatureRejections(t *testing.T) {
	payload := []byte(`{"type":"payment_succeeded"}`)
	secret := "whsec_test_secret"
	valid := sign(payload, secret)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		secret    string
	}{
		{"wrong secret", payload, sign(payload, "other_secret"), secret},
		{"tampered payload", []byte(`{"type":"payment_failed"}`), valid, secret},
		{"empty signature", payload, "", secret},
		{"empty secret", payload, valid, ""},
		{"non-hex signature", payload, "not-hex!", secret},
		{"truncated signature", payload, valid[:16], secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifySignature(tt.payload, tt.signature, tt.secret) {
				t.Error("invalid signature accepted")
			}
		})
	}
}
