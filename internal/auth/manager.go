// Package auth issues and verifies the JWT pair used by the API: short-lived
// access tokens and store-backed refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid indicates a token that failed verification.
var ErrTokenInvalid = errors.New("token invalid")

const accessTokenAge = 30 * time.Minute

// Manager signs and verifies tokens with separate access/refresh keys.
type Manager struct {
	accessKey  []byte
	refreshKey []byte
}

// NewManager constructs a Manager from the two signing keys.
func NewManager(accessKey, refreshKey []byte) *Manager {
	return &Manager{accessKey: accessKey, refreshKey: refreshKey}
}

type claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// GenerateAccess issues a short-lived access token carrying the user id.
func (m *Manager) GenerateAccess(userID string) (string, error) {
	return m.generate(userID, m.accessKey, accessTokenAge)
}

// GenerateRefresh issues a refresh token. It has no expiry of its own;
// revocation happens by deleting it from the store.
func (m *Manager) GenerateRefresh(userID string) (string, error) {
	return m.generate(userID, m.refreshKey, 0)
}

func (m *Manager) generate(userID string, key []byte, age time.Duration) (string, error) {
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if age > 0 {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(age))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns the user id.
func (m *Manager) VerifyAccess(token string) (string, error) {
	return m.verify(token, m.accessKey)
}

// VerifyRefresh validates a refresh token's signature and returns the user
// id. Whether the token is still registered is the store's call.
func (m *Manager) VerifyRefresh(token string) (string, error) {
	return m.verify(token, m.refreshKey)
}

func (m *Manager) verify(token string, key []byte) (string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !parsed.Valid || c.UserID == "" {
		return "", ErrTokenInvalid
	}
	return c.UserID, nil
}
