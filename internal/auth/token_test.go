package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxboard-ai/dashboard-core/internal/model"
)

func TestTokenIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	tenant := &model.Tenant{ID: "user_abc", Email: "demo@x.com", Name: "demo"}

	token, err := issuer.Issue(tenant, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", claims.Subject)
	assert.Equal(t, "demo@x.com", claims.Email)
	assert.Equal(t, "demo", claims.Name)
}

func TestTokenParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	tenant := &model.Tenant{ID: "user_abc", Email: "demo@x.com"}

	token, err := issuer.Issue(tenant, time.Now().Add(time.Hour))
	require.NoError(t, err)

	other := NewTokenIssuer("different-secret")
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestTokenParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	tenant := &model.Tenant{ID: "user_abc", Email: "demo@x.com"}

	token, err := issuer.Issue(tenant, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}
