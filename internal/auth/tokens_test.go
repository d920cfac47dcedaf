package auth

import (
	"testing"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "shisecal")
	user := &model.User{ID: 42, Role: model.RoleEditor}

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.RoleEditor, claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "shisecal")
	other := NewTokenIssuer("other-secret", "shisecal")

	token, err := issuer.Issue(&model.User{ID: 42, Role: model.RoleViewer})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	minted := NewTokenIssuer("test-secret", "someone-else")
	verifier := NewTokenIssuer("test-secret", "shisecal")

	token, err := minted.Issue(&model.User{ID: 42, Role: model.RoleViewer})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "shisecal")
	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
