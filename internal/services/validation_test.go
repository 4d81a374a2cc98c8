package services

import (
	"errors"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var de *models.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	require.Equal(t, models.KindValidation, de.Kind)
	return de.Fields
}

func TestRecipeRulesValidate(t *testing.T) {
	rules := RecipeRules{MaxAmount: 100, MaxCookingTime: 60}
	ok := []models.IngredientAmount{{IngredientID: 1, Amount: 10}, {IngredientID: 2, Amount: 5}}
	zero, long, blank := 0, 61, "  "

	tests := []struct {
		name   string
		mutate func(in *RecipeInput)
		field  string
	}{
		{"empty ingredients", func(in *RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"duplicate ingredient", func(in *RecipeInput) {
			in.Ingredients = []models.IngredientAmount{{IngredientID: 1, Amount: 1}, {IngredientID: 1, Amount: 2}}
		}, "ingredients"},
		{"zero amount", func(in *RecipeInput) { in.Ingredients = []models.IngredientAmount{{IngredientID: 1, Amount: 0}} }, "ingredients"},
		{"negative amount", func(in *RecipeInput) { in.Ingredients = []models.IngredientAmount{{IngredientID: 1, Amount: -3}} }, "ingredients"},
		{"amount above ceiling", func(in *RecipeInput) { in.Ingredients = []models.IngredientAmount{{IngredientID: 1, Amount: 101}} }, "ingredients"},
		{"empty tags", func(in *RecipeInput) { in.Tags = nil }, "tags"},
		{"duplicate tag", func(in *RecipeInput) { in.Tags = []uint{1, 1} }, "tags"},
		{"zero cooking time", func(in *RecipeInput) { in.CookingTime = &zero }, "cooking_time"},
		{"cooking time above ceiling", func(in *RecipeInput) { in.CookingTime = &long }, "cooking_time"},
		{"missing name", func(in *RecipeInput) { in.Name = nil }, "name"},
		{"blank text", func(in *RecipeInput) { in.Text = &blank }, "text"},
		{"missing image", func(in *RecipeInput) { in.Image = nil }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input("Pancakes", ok, 1, 2)
			tt.mutate(&in)

			fields := validationFields(t, rules.Validate(in, false))

			assert.Contains(t, fields, tt.field)
		})
	}

	t.Run("valid input", func(t *testing.T) {
		assert.NoError(t, rules.Validate(input("Pancakes", ok, 1, 2), false))
	})
}

func TestRecipeRulesValidatePartial(t *testing.T) {
	rules := RecipeRules{MaxAmount: 100, MaxCookingTime: 60}
	in := RecipeInput{
		Ingredients: []models.IngredientAmount{{IngredientID: 1, Amount: 1}},
		Tags:        []uint{1},
	}

	assert.NoError(t, rules.Validate(in, true), "scalar fields are optional on update")

	in.Tags = nil
	assert.Contains(t, validationFields(t, rules.Validate(in, true)), "tags",
		"the composition is replaced as a whole and stays required")
}

func TestPasswordProblem(t *testing.T) {
	assert.NotEmpty(t, passwordProblem("short"))
	assert.NotEmpty(t, passwordProblem("12345678901"))
	assert.Empty(t, passwordProblem("correct-horse"))
}

func TestStructErrorsUsesJSONNames(t *testing.T) {
	err := structErrors(Registration{
		Email:     "not-an-email",
		Username:  "bad name!",
		FirstName: "A",
		LastName:  "B",
		Password:  "correct-horse",
	})

	fields := validationFields(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "username")
	assert.NotContains(t, fields, "password")
}
