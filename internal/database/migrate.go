package database

import (
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Subscription{},
		&models.FavoriteRecipe{},
		&models.ShoppingList{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	log.Info("Migrating database schema")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return backfillIngredientNames(db)
}

// backfillIngredientNames fills name_lower for rows written before the
// column existed
func backfillIngredientNames(db *gorm.DB) error {
	var stale []models.Ingredient
	if err := db.Where("name_lower = ?", "").Where("name <> ?", "").Find(&stale).Error; err != nil {
		return fmt.Errorf("find ingredients to backfill: %w", err)
	}
	for i := range stale {
		if err := db.Model(&stale[i]).UpdateColumn("name_lower", strings.ToLower(stale[i].Name)).Error; err != nil {
			return fmt.Errorf("backfill ingredient %d: %w", stale[i].ID, err)
		}
	}
	if len(stale) > 0 {
		log.WithField("rows", len(stale)).Info("Backfilled ingredient search names")
	}
	return nil
}
