package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okonev/orderdesk/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// JWTStrategy signs tokens carrying the acting principal's identity and role,
// so request handling never has to re-read the user row.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

type claims struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken generates a signed token for the user.
func (s *JWTStrategy) IssueToken(user *model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// ParseToken validates the token and returns the encoded actor.
func (s *JWTStrategy) ParseToken(raw string) (model.Actor, error) {
	var parsed claims
	token, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Actor{}, ErrInvalidToken
	}

	var id int64
	if _, err := fmt.Sscanf(parsed.Subject, "%d", &id); err != nil {
		return model.Actor{}, ErrInvalidToken
	}
	if parsed.Role != model.RoleAdmin && parsed.Role != model.RoleUser {
		return model.Actor{}, ErrInvalidToken
	}

	return model.Actor{ID: &id, Username: parsed.Username, Role: parsed.Role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
