package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "company-1", "technician", "rank-it-pro-test", 60)
	require.NoError(t, err)

	id, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "company-1", id.CompanyID)
	assert.Equal(t, "technician", id.Role)
	assert.NotEmpty(t, id.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, 5*time.Second)
}

func TestGenerate_JTIDistintoPorToken(t *testing.T) {
	a, err := Generate(testSecret, "u", "", "super_admin", "iss", 60)
	require.NoError(t, err)
	b, err := Generate(testSecret, "u", "", "super_admin", "iss", 60)
	require.NoError(t, err)

	ia, _ := Parse(testSecret, a)
	ib, _ := Parse(testSecret, b)
	assert.NotEqual(t, ia.TokenID, ib.TokenID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate(testSecret, "u", "c", "company_admin", "iss", -1)
	require.NoError(t, err)

	_, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, "u", "c", "company_admin", "iss", 60)
	require.NoError(t, err)

	_, err = Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u", "c", "company_admin", "iss", 60)
	assert.Error(t, err)
}
