package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureClientIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.db)
	ctx := context.Background()

	first, created, err := svc.EnsureClient(ctx, models.OAuthClient{ID: "foodgram-web", GrantTypes: "password"}, "web-secret")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.VerifyPassword("web-secret"))
	assert.NotEqual(t, "web-secret", first.Secret)

	second, created, err := svc.EnsureClient(ctx, models.OAuthClient{ID: "foodgram-web"}, "other-secret")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Secret, second.Secret)
}

func TestCreateClientReturnsSecretOnce(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.db)
	owner := f.user(t, "integrator")

	client, secret, err := svc.CreateClient(context.Background(), owner, ClientRegistration{Name: "importer"})
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, owner.UserID, client.UserID)
	assert.Equal(t, "client_credentials", client.GrantTypes)

	stored, err := svc.GetClientByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyPassword(secret))
}

func TestCreateClientValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.db)

	_, _, err := svc.CreateClient(context.Background(), models.Anonymous, ClientRegistration{Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	_, _, err = svc.CreateClient(context.Background(), f.user(t, "integrator"), ClientRegistration{})
	require.Error(t, err)
	assert.Contains(t, validationFields(t, err), "name")
}

func TestClientsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.db)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	client, _, err := svc.CreateClient(ctx, alice, ClientRegistration{Name: "alice-bot"})
	require.NoError(t, err)

	mine, err := svc.ListClients(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := svc.ListClients(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assert.ErrorIs(t, svc.DeleteClient(ctx, bob, client.ID), ErrClientMissing)
	require.NoError(t, svc.DeleteClient(ctx, alice, client.ID))
	assert.ErrorIs(t, svc.DeleteClient(ctx, alice, client.ID), ErrClientMissing)
}
