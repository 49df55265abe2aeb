package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medisetu/portal-api/pkg/errors"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	accountID := uuid.New()

	token, err := svc.Issue(accountID, "Dr. A", "d@x.com", "doctor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "Dr. A", claims.Name)
	assert.Equal(t, "d@x.com", claims.Email)
	assert.Equal(t, "doctor", claims.Role)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue(uuid.New(), "Dr. A", "d@x.com", "doctor")
	require.NoError(t, err)

	// Flip a byte in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidToken, appErr.Code)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-one", time.Hour).Issue(uuid.New(), "P", "p@x.com", "patient")
	require.NoError(t, err)

	_, err = NewJWTService("secret-two", time.Hour).Verify(token)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidToken, appErr.Code)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.Issue(uuid.New(), "P", "p@x.com", "patient")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrExpiredToken, appErr.Code)
}
