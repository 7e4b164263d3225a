package utils

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "modeva-storefront"

// SessionClaims is the payload of a storefront session token.
type SessionClaims struct {
	UserID int64  `json:"uid"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokens issues and resolves the opaque session token that identifies
// an authenticated shopper. It carries no authorization: the backend decides
// what the user may do.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionTokens(secret string, ttl time.Duration) (*SessionTokens, error) {
	if secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl}, nil
}

func (s *SessionTokens) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for userID.
func (s *SessionTokens) Issue(userID int64, name string) (string, error) {
	if userID <= 0 {
		return "", errors.New("user id must be positive")
	}
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Resolve returns the positive user id encoded in token, or ok=false for a
// guest. Decode paths, in order: signed session token, legacy plain decimal
// id, legacy base64-encoded id. Any failure means guest.
func (s *SessionTokens) Resolve(token string) (userID int64, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	if strings.Count(token, ".") == 2 {
		claims, err := s.verify(token)
		if err != nil || claims.UserID <= 0 {
			return 0, false
		}
		return claims.UserID, true
	}
	if id, ok := parsePositiveID(token); ok {
		return id, true
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		raw, err := enc.DecodeString(token)
		if err != nil {
			continue
		}
		if id, ok := parsePositiveID(string(raw)); ok {
			return id, true
		}
	}
	return 0, false
}

func (s *SessionTokens) verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// EncodeLegacyID produces the reversible encoding older storefront builds
// stored for the user id.
func EncodeLegacyID(userID int64) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
}

func parsePositiveID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ExtractTokenFromHeader extracts a token from an Authorization header
// ("Bearer <token>").
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is empty")
	}

	const bearerPrefix = "Bearer "
	if len(authHeader) < len(bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}

	if authHeader[:len(bearerPrefix)] != bearerPrefix {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	token := authHeader[len(bearerPrefix):]
	if token == "" {
		return "", errors.New("token is empty")
	}

	return token, nil
}
