package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/medisetu/portal-api/pkg/errors"
)

// Claims is the identity claim set embedded in every issued token. Both
// signup and signin issue the full set; protected routes re-fetch account
// data by AccountID instead of trusting anything beyond identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

// TokenService issues and verifies stateless signed tokens. There is no
// server-side token store; expiry is the only termination mechanism and
// logout is a client-side discard.
type TokenService interface {
	Issue(accountID uuid.UUID, name, email, role string) (string, error)
	Verify(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates a token service around a process-wide secret,
// injected once at startup.
func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) Issue(accountID uuid.UUID, name, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		AccountID: accountID,
		Name:      name,
		Email:     email,
		Role:      role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ExpiredToken(err)
		}
		return nil, apperrors.InvalidToken(err)
	}
	if !token.Valid {
		return nil, apperrors.InvalidToken(jwt.ErrTokenUnverifiable)
	}

	return &claims, nil
}
