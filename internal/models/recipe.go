package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Ingredient is immutable reference data. NameLower backs the
// case-insensitive prefix search; SQLite's LOWER only folds ASCII.
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"uniqueIndex;size:200;not null" json:"name"`
	NameLower       string `gorm:"index;size:200;not null;default:''" json:"-"`
	MeasurementUnit string `gorm:"size:50;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}

// Tag is immutable reference data.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
}

// Recipe is owned by its author. Tags and Ingredients are replaced as a
// whole on every write.
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      User               `gorm:"constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"size:256;not null"`
	Image       string             `gorm:"not null"`
	Text        string             `gorm:"not null"`
	CookingTime int                `gorm:"not null"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient records how much of one ingredient a recipe needs.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null"`
}

// IngredientAmount is one entry of a recipe write request.
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// IngredientTotal is one consolidated shopping-list row.
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}
