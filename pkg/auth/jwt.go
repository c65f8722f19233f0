package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GuestClaims binds a client to the bot games it creates.
type GuestClaims struct {
	GuestID string `json:"guest_id"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// GenerateGuestToken creates a signed token for guestID
func (i *TokenIssuer) GenerateGuestToken(guestID string) (string, error) {
	if guestID == "" {
		return "", errors.New("guest id is empty")
	}
	now := time.Now()
	claims := &GuestClaims{
		GuestID: guestID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   guestID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateGuestToken validates a guest token and returns its claims
func (i *TokenIssuer) ValidateGuestToken(tokenString string) (*GuestClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GuestClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*GuestClaims); ok && token.Valid && claims.GuestID != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
