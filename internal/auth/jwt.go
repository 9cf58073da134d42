package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// JWTManager signs and validates HS256 access tokens. Tokens carry the user
// id as subject plus email and role claims.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// accessClaims extends standard JWT claims with the caller's email and role.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GenerateAccessToken creates a signed HS256 JWT for the principal.
func (m *JWTManager) GenerateAccessToken(p domain.Principal) (string, error) {
	if p.UserID == "" && p.Email == "" {
		return "", errors.New("principal has no identity")
	}

	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: p.Email,
		Role:  p.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken parses and validates a JWT access token and returns
// the principal it was issued to.
func (m *JWTManager) ValidateAccessToken(tokenString string) (domain.Principal, error) {
	if tokenString == "" {
		return domain.Principal{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return domain.Principal{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return domain.Principal{}, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	p := domain.Principal{
		UserID: strings.TrimSpace(claims.Subject),
		Email:  domain.NormalizeEmail(claims.Email),
		Role:   domain.NormalizeToken(claims.Role),
	}
	if p.UserID == "" && p.Email == "" {
		return domain.Principal{}, fmt.Errorf("token has neither subject nor email")
	}

	return p, nil
}

// ValidateToken adapts ValidateAccessToken to the HTTP auth middleware.
func (m *JWTManager) ValidateToken(_ context.Context, token string) (domain.Principal, error) {
	return m.ValidateAccessToken(token)
}
