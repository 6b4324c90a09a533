// internals/features/users/auth/service/token_service_test.go
package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumet_backend/internals/configs"
	"edumet_backend/internals/constants"
)

func TestIssueAndParseTokenPair(t *testing.T) {
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	userID := uuid.New()
	teacherID := uuid.New()

	pair, err := IssueTokenPair(userID, constants.RoleClassTeacher, teacherID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Access token carries role and teacher_id under the access secret.
	token, err := jwt.Parse(pair.AccessToken, func(tk *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, userID.String(), claims["sub"])
	assert.Equal(t, constants.RoleClassTeacher, claims["role"])
	assert.Equal(t, teacherID.String(), claims["teacher_id"])
	assert.Equal(t, "access", claims["typ"])

	parsed, err := ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	pair, err := IssueTokenPair(uuid.New(), constants.RolePrincipal, uuid.New())
	require.NoError(t, err)

	// Wrong secret and wrong typ claim both fail it.
	_, err = ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = ParseRefreshToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
