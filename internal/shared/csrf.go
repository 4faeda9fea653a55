package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	// CSRFSessionKey is where the active token lives inside the session
	// record, next to the principal payload.
	CSRFSessionKey = "csrf_token"
	// CSRFFormField is the hidden input every console form posts back.
	CSRFFormField = "csrf_token"
)

// CSRFManager mints per-session tokens for the login, registration and
// mutation forms. Tokens are HMACs over the session id, so a token is
// worthless outside the session it was issued for.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager builds a manager keyed with the CSRF_SECRET value.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// EnsureToken returns the session's token, minting one on first use.
func (m *CSRFManager) EnsureToken(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", errors.New("session missing")
	}
	if token := sess.Get(CSRFSessionKey); token != "" {
		return token, nil
	}
	token := m.mint(sess.ID)
	sess.Set(CSRFSessionKey, token)
	return token, nil
}

// VerifyToken checks a submitted token against the session's stored one.
func (m *CSRFManager) VerifyToken(ctx context.Context, sess *Session, token string) error {
	if sess == nil {
		return ErrCSRFTokenMissing
	}
	expected := sess.Get(CSRFSessionKey)
	if expected == "" || token == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) mint(sessionID string) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(sessionID))
	_, _ = mac.Write([]byte{'|'})
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(time.Now().UnixNano()))
	_, _ = mac.Write(nonce)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
