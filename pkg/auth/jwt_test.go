package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestSecret(t *testing.T) {
	t.Helper()
	oldSecret, oldTTL, oldPassword := jwtSecretKey, tokenTTL, OperatorPassword
	jwtSecretKey = "unit-test-secret"
	tokenTTL = time.Minute
	OperatorPassword = "hunter2"
	t.Cleanup(func() {
		jwtSecretKey, tokenTTL, OperatorPassword = oldSecret, oldTTL, oldPassword
	})
}

func TestOperatorTokenRoundTrip(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateOperatorToken()
	require.NoError(t, err)

	claims, err := ValidateOperatorToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
}

func TestValidateOperatorTokenRejectsGarbage(t *testing.T) {
	withTestSecret(t)

	_, err := ValidateOperatorToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateOperatorTokenRejectsWrongKey(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateOperatorToken()
	require.NoError(t, err)

	jwtSecretKey = "another-secret"
	_, err = ValidateOperatorToken(token)
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	withTestSecret(t)

	assert.True(t, Enabled())
	assert.True(t, CheckPassword("hunter2"))
	assert.False(t, CheckPassword("wrong"))
}

func TestGenerateWithoutSecret(t *testing.T) {
	old := jwtSecretKey
	jwtSecretKey = ""
	t.Cleanup(func() { jwtSecretKey = old })

	_, err := GenerateOperatorToken()
	assert.Error(t, err)
}
