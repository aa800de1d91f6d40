package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestService() *JWTService {
	return NewJWTService(testSecret, 15*time.Minute, 24*time.Hour).(*JWTService)
}

func TestSSETokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken("user-1", "company-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	claims, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, SSEClaims{UserID: "user-1", CompanyID: "company-1"}, claims)
}

func TestValidateSSETokenRejectsAccessToken(t *testing.T) {
	svc := newTestService()

	companyID := "company-1"
	token, _, err := svc.GenerateAccessToken("user-1", "a@b.c", nil, &companyID, user.RoleManager)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSETokenRejectsExpired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken("user-1", "company-1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSETokenRejectsForeignSignature(t *testing.T) {
	other := NewJWTService("another-secret", time.Minute, time.Minute)
	token, _, err := other.GenerateSSEToken("user-1", "company-1")
	require.NoError(t, err)

	_, err = newTestService().ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestGenerateDeviceToken(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateDeviceToken("kiosk-lobby", "company-1")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Add(23*time.Hour).Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, "kiosk-lobby", claims["device_id"])
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, string(user.RoleKiosk), claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessTokenNilClaims(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateAccessToken("user-1", "a@b.c", nil, nil, user.RoleOwner)
	require.NoError(t, err)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Nil(t, claims["company_id"])
	assert.Equal(t, "owner", claims["role"])
}
