package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ──────────────────────────────────────────────────────────────────────────────
// JWT claims
// ──────────────────────────────────────────────────────────────────────────────

// AppClaims extends jwt.RegisteredClaims with application-specific fields.
type AppClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	TokenType string `json:"type"` // "access"
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthService
// ──────────────────────────────────────────────────────────────────────────────

// AuthService verifies the access tokens issued by the account service.
// Accounts themselves live elsewhere; wizard sessions only need the subject.
type AuthService struct {
	cfg *config.Config
	now func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

// IssueAccessToken signs an access token for userID. Used by tests and local
// tooling; production tokens come from the account service with the same
// shared secret.
func (s *AuthService) IssueAccessToken(userID uuid.UUID, role string) (string, error) {
	now := s.now().UTC()
	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTTL)),
		},
		Role:      role,
		TokenType: "access",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("auth_service.IssueAccessToken: %w", err)
	}
	return tok, nil
}

// ParseAccessToken validates signature, algorithm, expiry, token type and
// that the subject is a non-nil user UUID.
func (s *AuthService) ParseAccessToken(tokenString string) (*AppClaims, error) {
	secret := []byte(s.cfg.JWT.AccessSecret)
	tok, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	claims, ok := tok.Claims.(*AppClaims)
	if !ok || !tok.Valid || claims.TokenType != "access" {
		return nil, domain.ErrTokenInvalid
	}
	// The nil UUID never identifies a user.
	if id, err := uuid.Parse(claims.Subject); err != nil || id == uuid.Nil {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// UserID parses the subject of an access token.
func (s *AuthService) UserID(tokenString string) (uuid.UUID, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(claims.Subject), nil
}
