package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	reader := f.user(t, "reader")
	ctx := context.Background()
	svc := NewSubscriptionService(f.repos)
	for _, name := range []string{"Soup", "Stew", "Pie"} {
		f.recipe(t, author, name, amount(f.eggs, 1))
	}

	view, err := svc.Subscribe(ctx, reader, author.UserID, 2)
	require.NoError(t, err)
	assert.Equal(t, author.UserID, view.ID)
	assert.True(t, view.IsSubscribed)
	assert.EqualValues(t, 3, view.RecipesCount)
	require.Len(t, view.Recipes, 2)
	assert.Equal(t, "Pie", view.Recipes[0].Name)

	_, err = svc.Subscribe(ctx, reader, author.UserID, AllRecipes)
	assert.ErrorIs(t, err, models.ErrSubscriptionExists)

	require.NoError(t, svc.Unsubscribe(ctx, reader, author.UserID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, reader, author.UserID), models.ErrSubscriptionAbsent)
}

func TestSubscribeToSelfAlwaysFails(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "narcissus")
	other := f.user(t, "echo")
	ctx := context.Background()
	svc := NewSubscriptionService(f.repos)

	_, err := svc.Subscribe(ctx, user, user.UserID, AllRecipes)
	assert.ErrorIs(t, err, models.ErrSubscribeSelf)

	_, err = svc.Subscribe(ctx, user, other.UserID, AllRecipes)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, user, user.UserID, AllRecipes)
	assert.ErrorIs(t, err, models.ErrSubscribeSelf)
}

func TestSubscribeErrors(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	ctx := context.Background()
	svc := NewSubscriptionService(f.repos)

	_, err := svc.Subscribe(ctx, reader, 999, AllRecipes)
	assert.ErrorIs(t, err, models.ErrUserMissing)
	assert.ErrorIs(t, svc.Unsubscribe(ctx, reader, 999), models.ErrUserMissing)

	_, err = svc.Subscribe(ctx, models.Anonymous, reader.UserID, AllRecipes)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	_, err = svc.List(ctx, models.Anonymous, PageRequest{}, AllRecipes)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestListSubscriptionsCapsRecipes(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.user(t, "carol")
	ctx := context.Background()
	svc := NewSubscriptionService(f.repos)
	for i := 0; i < 3; i++ {
		f.recipe(t, alice, "Alice dish", amount(f.flour, 10))
	}
	f.recipe(t, bob, "Bob dish", amount(f.flour, 10))
	for _, author := range []models.Caller{alice, bob} {
		_, err := svc.Subscribe(ctx, reader, author.UserID, AllRecipes)
		require.NoError(t, err)
	}

	limited, err := svc.List(ctx, reader, PageRequest{}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, limited.Count)
	require.Len(t, limited.Results, 2)
	assert.Equal(t, alice.UserID, limited.Results[0].ID)
	assert.Len(t, limited.Results[0].Recipes, 2)
	assert.EqualValues(t, 3, limited.Results[0].RecipesCount)
	assert.Len(t, limited.Results[1].Recipes, 1)

	all, err := svc.List(ctx, reader, PageRequest{}, AllRecipes)
	require.NoError(t, err)
	assert.Len(t, all.Results[0].Recipes, 3)

	paged, err := svc.List(ctx, reader, PageRequest{Page: 2, Limit: 1}, AllRecipes)
	require.NoError(t, err)
	assert.EqualValues(t, 2, paged.Count)
	require.Len(t, paged.Results, 1)
	assert.Equal(t, bob.UserID, paged.Results[0].ID)
}

func TestZeroRecipesLimitGivesEmptyPreview(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	reader := f.user(t, "reader")
	ctx := context.Background()
	svc := NewSubscriptionService(f.repos)
	f.recipe(t, author, "Soup", amount(f.eggs, 1))
	f.recipe(t, author, "Stew", amount(f.eggs, 2))

	view, err := svc.Subscribe(ctx, reader, author.UserID, 0)
	require.NoError(t, err)
	assert.NotNil(t, view.Recipes)
	assert.Empty(t, view.Recipes)
	assert.EqualValues(t, 2, view.RecipesCount)

	listed, err := svc.List(ctx, reader, PageRequest{}, 0)
	require.NoError(t, err)
	require.Len(t, listed.Results, 1)
	assert.Empty(t, listed.Results[0].Recipes)
}
