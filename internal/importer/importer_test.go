package importer

import (
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOf(t *testing.T) {
	testCases := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"data/ingredients.csv", CSV, false},
		{"INGREDIENTS.JSON", JSON, false},
		{"ingredients.xml", "", true},
		{"ingredients", "", true},
	}
	for _, tt := range testCases {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadIngredientsCSV(t *testing.T) {
	data := "name,measurement_unit\n" +
		" flour , g\n" +
		"\n" +
		"\"salt, coarse\",g\n"

	got, err := ReadIngredients(strings.NewReader(data), CSV, true)

	require.NoError(t, err)
	assert.Equal(t, []services.IngredientInput{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt, coarse", MeasurementUnit: "g"},
	}, got)
}

func TestReadIngredientsCSVWithoutHeader(t *testing.T) {
	got, err := ReadIngredients(strings.NewReader("eggs,pcs\n"), CSV, false)

	require.NoError(t, err)
	assert.Equal(t, []services.IngredientInput{{Name: "eggs", MeasurementUnit: "pcs"}}, got)
}

func TestReadIngredientsCSVRejectsMalformedRow(t *testing.T) {
	_, err := ReadIngredients(strings.NewReader("name,unit\nflour,g,extra\n"), CSV, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadIngredientsJSON(t *testing.T) {
	data := `[{"name": "sugar ", "measurement_unit": "g"}, {"name": "milk", "measurement_unit": "ml"}]`

	got, err := ReadIngredients(strings.NewReader(data), JSON, false)

	require.NoError(t, err)
	assert.Equal(t, []services.IngredientInput{
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	}, got)
}

func TestReadTags(t *testing.T) {
	got, err := ReadTags(strings.NewReader(`[{"name": "Breakfast", "slug": "breakfast"}]`))
	require.NoError(t, err)
	assert.Equal(t, []services.TagInput{{Name: "Breakfast", Slug: "breakfast"}}, got)

	_, err = ReadTags(strings.NewReader(`{"name": "not a list"}`))
	assert.Error(t, err)
}
