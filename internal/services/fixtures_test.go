package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/media"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngURI carries the 8-byte PNG signature
const pngURI = "data:image/png;base64,iVBORw0KGgo="

var testRules = RecipeRules{MaxAmount: 32000, MaxCookingTime: 32000}

type fixture struct {
	db    *gorm.DB
	repos *repository.Repositories
	store *media.LocalStore

	flour, sugar, eggs models.Ingredient
	breakfast, dinner  models.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		db:        db,
		repos:     repository.New(db),
		store:     media.NewLocalStore(t.TempDir(), "/media"),
		flour:     models.Ingredient{Name: "flour", MeasurementUnit: "g"},
		sugar:     models.Ingredient{Name: "sugar", MeasurementUnit: "g"},
		eggs:      models.Ingredient{Name: "eggs", MeasurementUnit: "pcs"},
		breakfast: models.Tag{Name: "Breakfast", Slug: "breakfast"},
		dinner:    models.Tag{Name: "Dinner", Slug: "dinner"},
	}
	for _, i := range []*models.Ingredient{&f.flour, &f.sugar, &f.eggs} {
		require.NoError(t, db.Create(i).Error)
	}
	for _, tag := range []*models.Tag{&f.breakfast, &f.dinner} {
		require.NoError(t, db.Create(tag).Error)
	}
	return f
}

// user creates an account and returns its caller identity
func (f *fixture) user(t *testing.T, username string) models.Caller {
	t.Helper()
	u := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  "correct-horse",
		Role:      models.RoleUser,
	}
	require.NoError(t, u.HashPassword())
	require.NoError(t, f.db.Create(u).Error)
	return models.Caller{UserID: u.ID, Role: u.Role}
}

func (f *fixture) recipes() RecipeService {
	return NewRecipeService(f.repos, f.store, testRules, "https://foodgram.example")
}

// recipe publishes a recipe with the given ingredient amounts
func (f *fixture) recipe(t *testing.T, author models.Caller, name string, items ...models.IngredientAmount) uint {
	t.Helper()
	detail, err := f.recipes().Create(context.Background(), author, input(name, items, f.breakfast.ID))
	require.NoError(t, err)
	return detail.ID
}

func input(name string, items []models.IngredientAmount, tags ...uint) RecipeInput {
	text, image, cookingTime := "Mix and bake.", pngURI, 30
	return RecipeInput{
		Name:        &name,
		Text:        &text,
		Image:       &image,
		CookingTime: &cookingTime,
		Ingredients: items,
		Tags:        tags,
	}
}

func amount(i models.Ingredient, n int) models.IngredientAmount {
	return models.IngredientAmount{IngredientID: i.ID, Amount: n}
}
