package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

var jwtService = NewService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var actorID = id.NewIdentityID()
var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(actorID, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actorID, parsed)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(actorID, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewService("other-signing-key", "test-issuer", "test-audience")
	token, err := other.GenerateAccessToken(actorID, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}
