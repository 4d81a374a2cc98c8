package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIngredientsByPrefix(t *testing.T) {
	f := newFixture(t)
	svc := NewReferenceService(f.repos)
	ctx := context.Background()
	_, err := svc.ImportIngredients(ctx, []IngredientInput{
		{Name: "Flaxseed", MeasurementUnit: "g"},
		{Name: "100% juice", MeasurementUnit: "ml"},
		{Name: "Мука пшеничная", MeasurementUnit: "г"},
	})
	require.NoError(t, err)

	names := func(list []models.Ingredient) []string {
		out := make([]string, len(list))
		for i, item := range list {
			out[i] = item.Name
		}
		return out
	}

	got, err := svc.ListIngredients(ctx, "FL")
	require.NoError(t, err)
	assert.Equal(t, []string{"Flaxseed", "flour"}, names(got))

	got, err = svc.ListIngredients(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% juice"}, names(got))

	for _, prefix := range []string{"Мук", "мук", "МУКА"} {
		got, err = svc.ListIngredients(ctx, prefix)
		require.NoError(t, err)
		assert.Equal(t, []string{"Мука пшеничная"}, names(got), "prefix %q", prefix)
	}

	got, err = svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 6)

	_, err = svc.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, models.ErrIngredientMissing)
	_, err = svc.GetTag(ctx, 999)
	assert.ErrorIs(t, err, models.ErrTagMissing)
}

func TestCreateReferenceDataNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	svc := NewReferenceService(f.repos)
	ctx := context.Background()
	user := f.user(t, "cook")
	admin := models.Caller{UserID: user.UserID, Role: models.RoleAdmin}

	_, err := svc.CreateTag(ctx, models.Anonymous, TagInput{Name: "Lunch", Slug: "lunch"})
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	_, err = svc.CreateTag(ctx, user, TagInput{Name: "Lunch", Slug: "lunch"})
	assert.ErrorIs(t, err, models.ErrForbiddenRole)

	tag, err := svc.CreateTag(ctx, admin, TagInput{Name: "Lunch", Slug: "lunch"})
	require.NoError(t, err)
	assert.NotZero(t, tag.ID)

	_, err = svc.CreateTag(ctx, admin, TagInput{Name: "Lunch again", Slug: "lunch"})
	assert.Contains(t, validationFields(t, err), "slug")
	_, err = svc.CreateTag(ctx, admin, TagInput{Name: "Bad", Slug: "not a slug"})
	assert.Contains(t, validationFields(t, err), "slug")

	ingredient, err := svc.CreateIngredient(ctx, admin, IngredientInput{Name: "salt", MeasurementUnit: "g"})
	require.NoError(t, err)
	assert.Equal(t, "salt", ingredient.Name)
	_, err = svc.CreateIngredient(ctx, admin, IngredientInput{Name: "salt", MeasurementUnit: "kg"})
	assert.Contains(t, validationFields(t, err), "name")
}

func TestImportSkipsExisting(t *testing.T) {
	f := newFixture(t)
	svc := NewReferenceService(f.repos)
	ctx := context.Background()

	inserted, err := svc.ImportIngredients(ctx, []IngredientInput{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	inserted, err = svc.ImportTags(ctx, []TagInput{{Name: "Lunch", Slug: "lunch"}, {Name: "Dinner", Slug: "dinner"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	_, err = svc.ImportTags(ctx, []TagInput{{Name: "", Slug: "empty"}})
	assert.Error(t, err)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}
