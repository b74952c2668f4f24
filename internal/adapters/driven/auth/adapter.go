package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

// jwtClaims wraps domain.TokenClaims for JWT compatibility
type jwtClaims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	WorkspaceID string `json:"workspace_id"`
	jwt.RegisteredClaims
}

// Adapter validates session JWTs and the service API key. It never mints
// tokens; session issuance belongs to the identity service upstream.
type Adapter struct {
	jwtSecret      []byte
	serviceKeyHash string
}

// NewAdapter creates a new auth adapter. serviceKeyHash is the bcrypt hash
// of the service-to-service API key; empty disables the apikey path.
func NewAdapter(jwtSecret, serviceKeyHash string) *Adapter {
	return &Adapter{
		jwtSecret:      []byte(jwtSecret),
		serviceKeyHash: serviceKeyHash,
	}
}

// ParseToken validates a session JWT and extracts domain claims.
// Expired tokens map to domain.ErrTokenExpired, everything else that fails
// validation to domain.ErrTokenInvalid.
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*jwtClaims); ok && token.Valid {
		tc := &domain.TokenClaims{
			UserID:      claims.UserID,
			Email:       claims.Email,
			WorkspaceID: claims.WorkspaceID,
		}
		if claims.IssuedAt != nil {
			tc.IssuedAt = claims.IssuedAt.Unix()
		}
		if claims.ExpiresAt != nil {
			tc.ExpiresAt = claims.ExpiresAt.Unix()
		}
		return tc, nil
	}

	return nil, domain.ErrTokenInvalid
}

// VerifyServiceKey checks an apikey header value against the configured
// bcrypt hash.
func (a *Adapter) VerifyServiceKey(key string) bool {
	if a.serviceKeyHash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.serviceKeyHash), []byte(key)) == nil
}

// MintToken signs a session JWT. Test helper; production tokens come from
// the identity service.
func MintToken(secret string, claims *domain.TokenClaims) (string, error) {
	jc := jwtClaims{
		UserID:      claims.UserID,
		Email:       claims.Email,
		WorkspaceID: claims.WorkspaceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	return token.SignedString([]byte(secret))
}
