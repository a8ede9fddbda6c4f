// Package token issues and verifies the HS256 access tokens.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims 访问令牌载荷
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	issuer   string
	duration time.Duration
}

func NewManager(secret, issuer string, duration time.Duration) *Manager {
	if duration <= 0 {
		duration = 2 * time.Hour
	}
	return &Manager{secret: []byte(secret), issuer: issuer, duration: duration}
}

// Issue signs a token for the user and returns it with its expiry.
func (m *Manager) Issue(userID int64, username, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.duration)
	claims := Claims{
		ID:       userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, issuer and time claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.ID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
