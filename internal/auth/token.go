package auth

import (
	"errors"
	"fmt"
	"time"

	"cardbox_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession covers every way a session token can be unusable:
// bad signature, expiry, malformed input, missing subject. Callers treat
// it as "unauthenticated", never as a server error.
var ErrInvalidSession = errors.New("auth: invalid session token")

const issuer = "cardbox"

// SessionClaims is the fixed claim set carried by a session token.
type SessionClaims struct {
	ExternalID  string          `json:"externalId"`
	Username    string          `json:"username,omitempty"`
	Email       string          `json:"email,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	AvatarURL   string          `json:"avatarUrl,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Religion    string          `json:"religion,omitempty"`
	Country     string          `json:"country,omitempty"`
	Role        models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the local user id carried in the subject claim.
func (c *SessionClaims) UserID() string {
	return c.Subject
}

// TokenService signs and verifies session tokens. The HMAC secret is
// process configuration; it is never derived from request data.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue serializes the claims into a signed, time-boxed token.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		ExternalID:  user.ExternalID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Phone:       user.Phone,
		Religion:    user.Religion,
		Country:     user.Country,
		Role:        user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if user.Username != nil {
		claims.Username = *user.Username
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. Any failure maps to
// ErrInvalidSession so middleware can treat it uniformly as anonymous.
func (s *TokenService) Verify(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&SessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// TTL exposes the configured token lifetime for cookie max-age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
