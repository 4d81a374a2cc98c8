package repository

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// MembershipRepository stores (user, recipe) pairs. Uniqueness is enforced
// by the store: a second Add for the same pair fails with gorm.ErrDuplicatedKey.
type MembershipRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	// Remove deletes the pair and reports whether it existed
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	// Contains returns the subset of recipeIDs paired with userID
	Contains(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

// ShoppingCartRepository is the cart membership plus the ingredient reads
// behind the shopping list
type ShoppingCartRepository interface {
	MembershipRepository
	// Items returns every ingredient row of every recipe in the cart
	Items(ctx context.Context, userID uint) ([]models.RecipeIngredient, error)
	// SumIngredients aggregates the cart in the store, grouped by
	// ingredient name and unit and ordered by both
	SumIngredients(ctx context.Context, userID uint) ([]models.IngredientTotal, error)
}

type membershipRepository[T any] struct {
	db     *gorm.DB
	newRow func(userID, recipeID uint) *T
}

func NewFavoriteRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository[models.FavoriteRecipe]{
		db: db,
		newRow: func(userID, recipeID uint) *models.FavoriteRecipe {
			return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
		},
	}
}

func (r *membershipRepository[T]) Add(ctx context.Context, userID, recipeID uint) error {
	return r.db.WithContext(ctx).Omit("Recipe").Create(r.newRow(userID, recipeID)).Error
}

func (r *membershipRepository[T]) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T))
	return res.RowsAffected > 0, res.Error
}

func (r *membershipRepository[T]) Contains(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return found, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

type shoppingCartRepository struct {
	*membershipRepository[models.ShoppingList]
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{
		membershipRepository: &membershipRepository[models.ShoppingList]{
			db: db,
			newRow: func(userID, recipeID uint) *models.ShoppingList {
				return &models.ShoppingList{UserID: userID, RecipeID: recipeID}
			},
		},
	}
}

func (r *shoppingCartRepository) Items(ctx context.Context, userID uint) ([]models.RecipeIngredient, error) {
	var items []models.RecipeIngredient
	err := r.db.WithContext(ctx).
		Joins("JOIN shopping_lists ON shopping_lists.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_lists.user_id = ?", userID).
		Order("recipe_ingredients.id").
		Preload("Ingredient").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingCartRepository) SumIngredients(ctx context.Context, userID uint) ([]models.IngredientTotal, error) {
	var totals []models.IngredientTotal
	err := r.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_lists ON shopping_lists.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_lists.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
