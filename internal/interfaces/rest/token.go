package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// TokenSigner issues and checks the nonce tokens that protect the
// client-side checkout's completion callbacks. The token binds to one
// payment id, so a captured callback URL cannot be replayed against
// another payment.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

func (s *TokenSigner) Sign(paymentID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *TokenSigner) Verify(paymentID, token string) bool {
	expected := s.Sign(paymentID)
	return hmac.Equal([]byte(expected), []byte(token))
}
