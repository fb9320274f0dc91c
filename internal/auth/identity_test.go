package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndValidateRoundTrip(t *testing.T) {
	svc := NewIdentityService("test-secret")

	userID := uuid.New()
	token, err := svc.MintToken(userID, "Field Engineer")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Field Engineer", claims.Name)
	assert.Equal(t, "sitecheck", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewIdentityService("secret-a").MintToken(uuid.New(), "")
	require.NoError(t, err)

	_, err = NewIdentityService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsMissingUserID(t *testing.T) {
	svc := NewIdentityService("test-secret")

	token, err := svc.MintToken(uuid.Nil, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewIdentityService("test-secret")
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
