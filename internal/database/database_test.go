package database

import (
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      DatabaseConfig
		expected string
	}{
		{
			name:     "sqlite path gets foreign keys",
			cfg:      DatabaseConfig{Driver: "sqlite", Path: "foodgram.sqlite"},
			expected: "file:foodgram.sqlite?_foreign_keys=on",
		},
		{
			name:     "sqlite uri with query is extended",
			cfg:      DatabaseConfig{Driver: "sqlite", Path: "file:x?mode=memory"},
			expected: "file:x?mode=memory&_foreign_keys=on",
		},
		{
			name:     "explicit foreign key setting is kept",
			cfg:      DatabaseConfig{Driver: "", Path: "file:x?_foreign_keys=off"},
			expected: "file:x?_foreign_keys=off",
		},
		{
			name: "postgres from parts",
			cfg: DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u",
				Password: "p", Name: "foodgram", SSLMode: "disable"},
			expected: "host=db user=u password=p dbname=foodgram port=5432 sslmode=disable",
		},
		{
			name:     "postgres url wins",
			cfg:      DatabaseConfig{Driver: "postgresql", URL: "postgres://u:p@db/foodgram", Host: "ignored"},
			expected: "postgres://u:p@db/foodgram",
		},
		{
			name:     "unknown driver",
			cfg:      DatabaseConfig{Driver: "oracle"},
			expected: "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.DSN())
		})
	}
}

func TestStringMasksPassword(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Password: "hunter2"}
	assert.NotContains(t, cfg.String(), "hunter2")
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "oracle", MaxRetries: 1})
	assert.Error(t, err)
}

func TestOpenInMemoryIsIsolated(t *testing.T) {
	first, err := OpenInMemory()
	require.NoError(t, err)
	second, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, first.Create(&models.Tag{Name: "Breakfast", Slug: "breakfast"}).Error)

	var count int64
	require.NoError(t, second.Model(&models.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUniqueConstraintIsTranslated(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Tag{Name: "Lunch", Slug: "lunch"}).Error)
	err = db.Create(&models.Tag{Name: "Lunch", Slug: "lunch-2"}).Error

	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSubscriptionCheckRejectsSelfFollow(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	user := models.User{Email: "a@example.com", Username: "a", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	err = db.Create(&models.Subscription{UserID: user.ID, AuthorID: user.ID}).Error
	assert.Error(t, err)
}

func TestMigrateBackfillsIngredientSearchNames(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	ingredient := models.Ingredient{Name: "Сахар", MeasurementUnit: "г"}
	require.NoError(t, db.Create(&ingredient).Error)
	assert.Equal(t, "сахар", ingredient.NameLower)
	require.NoError(t, db.Model(&ingredient).UpdateColumn("name_lower", "").Error)

	require.NoError(t, Migrate(db))

	var stored models.Ingredient
	require.NoError(t, db.First(&stored, ingredient.ID).Error)
	assert.Equal(t, "сахар", stored.NameLower)
}
