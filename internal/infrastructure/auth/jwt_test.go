package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markethub/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough",
		Expiration: time.Hour,
		Issuer:     "markethub-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(userID, "ops@markethub.test", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ops@markethub.test", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "markethub-test", claims.Issuer)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Greater(t, claims.GetRemainingTTL(), time.Duration(0))
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := newTestService()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:     "a-completely-different-secret-value",
			Expiration: time.Hour,
			Issuer:     "markethub-test",
		})
		token, _, err := other.GenerateToken(uuid.New(), "", RoleAdmin)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:     "test-secret-key-that-is-long-enough",
			Expiration: -time.Minute,
			Issuer:     "markethub-test",
		})
		token, _, err := expired.GenerateToken(uuid.New(), "", RoleOperator)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New().String()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects claims without user id", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: RoleOperator,
		})
		signed, err := token.SignedString([]byte("test-secret-key-that-is-long-enough"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}

func TestClaims_IsAdmin(t *testing.T) {
	assert.True(t, (&Claims{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&Claims{Role: RoleOperator}).IsAdmin())
	assert.False(t, (&Claims{}).IsAdmin())
}
