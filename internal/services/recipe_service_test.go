package services

import (
	"context"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	ctx := context.Background()

	detail, err := f.recipes().Create(ctx, author,
		input("Pancakes", []models.IngredientAmount{amount(f.flour, 200), amount(f.eggs, 2)}, f.breakfast.ID, f.dinner.ID))
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", detail.Name)
	assert.Equal(t, 30, detail.CookingTime)
	assert.True(t, strings.HasPrefix(detail.Image, "/media/recipes/images/"))
	assert.Equal(t, author.UserID, detail.Author.ID)
	assert.False(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, presenter.IngredientLine{ID: f.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200}, detail.Ingredients[0])
	assert.Equal(t, f.eggs.ID, detail.Ingredients[1].ID)
	require.Len(t, detail.Tags, 2)
	assert.Equal(t, "breakfast", detail.Tags[0].Slug)
}

func TestCreateRecipeRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	ctx := context.Background()
	badImage := "data:text/plain;base64,aGVsbG8="

	tests := []struct {
		name  string
		in    RecipeInput
		field string
	}{
		{"unknown ingredient", input("Soup", []models.IngredientAmount{{IngredientID: 999, Amount: 1}}, f.dinner.ID), "ingredients"},
		{"unknown tag", input("Soup", []models.IngredientAmount{amount(f.eggs, 1)}, 999), "tags"},
		{"duplicate ingredient", input("Soup", []models.IngredientAmount{amount(f.eggs, 1), amount(f.eggs, 2)}, f.dinner.ID), "ingredients"},
		{"image is not a data URI", func() RecipeInput {
			in := input("Soup", []models.IngredientAmount{amount(f.eggs, 1)}, f.dinner.ID)
			in.Image = &badImage
			return in
		}(), "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recipes().Create(ctx, author, tt.in)
			assert.Contains(t, validationFields(t, err), tt.field)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeRequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	_, err := f.recipes().Create(context.Background(), models.Anonymous,
		input("Soup", []models.IngredientAmount{amount(f.eggs, 1)}, f.dinner.ID))

	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestUpdateRecipeReplacesComposition(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	ctx := context.Background()
	id := f.recipe(t, author, "Pancakes", amount(f.flour, 200), amount(f.sugar, 20))

	detail, err := f.recipes().Update(ctx, author, id, RecipeInput{
		Ingredients: []models.IngredientAmount{amount(f.eggs, 3)},
		Tags:        []uint{f.dinner.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", detail.Name, "omitted fields keep their value")
	require.Len(t, detail.Ingredients, 1)
	assert.Equal(t, "eggs", detail.Ingredients[0].Name)
	assert.Equal(t, 3, detail.Ingredients[0].Amount)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, "dinner", detail.Tags[0].Slug)

	var rows int64
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", id).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestUpdateRecipeChangesScalarsAndImage(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	ctx := context.Background()
	id := f.recipe(t, author, "Pancakes", amount(f.flour, 200))
	before, err := f.recipes().Get(ctx, author, id)
	require.NoError(t, err)

	in := input("Crepes", []models.IngredientAmount{amount(f.flour, 150)}, f.breakfast.ID)
	detail, err := f.recipes().Update(ctx, author, id, in)
	require.NoError(t, err)

	assert.Equal(t, "Crepes", detail.Name)
	assert.NotEqual(t, before.Image, detail.Image)
}

func TestUpdateAndDeleteRequireOwner(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	stranger := f.user(t, "stranger")
	ctx := context.Background()
	id := f.recipe(t, author, "Pancakes", amount(f.flour, 200))
	in := input("Mine now", []models.IngredientAmount{amount(f.flour, 1)}, f.dinner.ID)

	_, err := f.recipes().Update(ctx, stranger, id, in)
	assert.ErrorIs(t, err, models.ErrNotRecipeOwner)

	assert.ErrorIs(t, f.recipes().Delete(ctx, stranger, id), models.ErrNotRecipeOwner)
	assert.ErrorIs(t, f.recipes().Delete(ctx, models.Anonymous, id), models.ErrNotAuthenticated)

	_, err = f.recipes().Update(ctx, author, id+100, in)
	assert.ErrorIs(t, err, models.ErrRecipeMissing)
}

func TestDeleteRecipeLeavesNoOrphans(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	reader := f.user(t, "reader")
	ctx := context.Background()
	id := f.recipe(t, author, "Pancakes", amount(f.flour, 200), amount(f.eggs, 2))
	keep := f.recipe(t, author, "Omelette", amount(f.eggs, 3))

	_, err := NewFavoriteService(f.repos).Add(ctx, reader, id)
	require.NoError(t, err)
	_, err = NewShoppingCartService(f.repos).Add(ctx, reader, id)
	require.NoError(t, err)

	require.NoError(t, f.recipes().Delete(ctx, author, id))

	for _, table := range []string{"recipe_ingredients", "favorite_recipes", "shopping_lists", "recipe_tags"} {
		var n int64
		require.NoError(t, f.db.Table(table).Where("recipe_id = ?", id).Count(&n).Error)
		assert.Zero(t, n, "rows left in %s", table)
	}
	_, err = f.recipes().Get(ctx, author, id)
	assert.ErrorIs(t, err, models.ErrRecipeMissing)
	_, err = f.recipes().Get(ctx, author, keep)
	assert.NoError(t, err)
}

func TestRecipeFlagsAreRelativeToCaller(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	reader := f.user(t, "reader")
	ctx := context.Background()
	id := f.recipe(t, author, "Pancakes", amount(f.flour, 200))

	_, err := NewFavoriteService(f.repos).Add(ctx, reader, id)
	require.NoError(t, err)
	_, err = NewShoppingCartService(f.repos).Add(ctx, reader, id)
	require.NoError(t, err)
	_, err = NewSubscriptionService(f.repos).Subscribe(ctx, reader, author.UserID, AllRecipes)
	require.NoError(t, err)

	forReader, err := f.recipes().Get(ctx, reader, id)
	require.NoError(t, err)
	assert.True(t, forReader.IsFavorited)
	assert.True(t, forReader.IsInShoppingCart)
	assert.True(t, forReader.Author.IsSubscribed)

	forAuthor, err := f.recipes().Get(ctx, author, id)
	require.NoError(t, err)
	assert.False(t, forAuthor.IsFavorited)
	assert.False(t, forAuthor.IsInShoppingCart)

	anonymous, err := f.recipes().Get(ctx, models.Anonymous, id)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)
	assert.False(t, anonymous.Author.IsSubscribed)
}

func TestListRecipes(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ctx := context.Background()
	svc := f.recipes()

	pancakes := f.recipe(t, alice, "Pancakes", amount(f.flour, 200))
	_, err := svc.Create(ctx, alice, input("Stew", []models.IngredientAmount{amount(f.eggs, 1)}, f.dinner.ID))
	require.NoError(t, err)
	omelette := f.recipe(t, bob, "Omelette", amount(f.eggs, 3))
	_, err = NewFavoriteService(f.repos).Add(ctx, bob, pancakes)
	require.NoError(t, err)

	ids := func(res ListResult[interface{}]) []uint {
		out := make([]uint, len(res.Results))
		for i, r := range res.Results {
			out[i] = r.(presenter.RecipeDetail).ID
		}
		return out
	}

	t.Run("newest first", func(t *testing.T) {
		res, err := svc.List(ctx, models.Anonymous, RecipeQuery{View: presenter.DetailView})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
		assert.Equal(t, omelette, ids(res)[0])
	})

	t.Run("by author and tag", func(t *testing.T) {
		res, err := svc.List(ctx, models.Anonymous, RecipeQuery{AuthorID: alice.UserID, Tags: []string{"breakfast"}, View: presenter.DetailView})
		require.NoError(t, err)
		assert.Equal(t, []uint{pancakes}, ids(res))
	})

	t.Run("any of several tags", func(t *testing.T) {
		res, err := svc.List(ctx, models.Anonymous, RecipeQuery{Tags: []string{"breakfast", "dinner"}, View: presenter.DetailView})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
	})

	t.Run("favorites of the caller", func(t *testing.T) {
		res, err := svc.List(ctx, bob, RecipeQuery{IsFavorited: true, View: presenter.DetailView})
		require.NoError(t, err)
		assert.Equal(t, []uint{pancakes}, ids(res))
		assert.True(t, res.Results[0].(presenter.RecipeDetail).IsFavorited)
	})

	t.Run("flags do not filter for anonymous callers", func(t *testing.T) {
		res, err := svc.List(ctx, models.Anonymous, RecipeQuery{IsFavorited: true, IsInShoppingCart: true, View: presenter.DetailView})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
	})

	t.Run("paged", func(t *testing.T) {
		res, err := svc.List(ctx, models.Anonymous, RecipeQuery{PageRequest: PageRequest{Page: 2, Limit: 2}, View: presenter.DetailView})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
		assert.Equal(t, []uint{pancakes}, ids(res))
	})

	t.Run("summary view", func(t *testing.T) {
		res, err := svc.List(ctx, models.Anonymous, RecipeQuery{View: presenter.SummaryView})
		require.NoError(t, err)
		assert.IsType(t, presenter.RecipeSummary{}, res.Results[0])
	})
}

func TestShortLink(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	id := f.recipe(t, author, "Pancakes", amount(f.flour, 200))
	require.EqualValues(t, 1, id)

	link, err := f.recipes().ShortLink(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://foodgram.example/s/c4ca4", link)

	_, err = f.recipes().ShortLink(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrRecipeMissing)
}
