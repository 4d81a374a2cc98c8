package repository

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows a recipe listing. Zero fields do not filter.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

// RecipeRepository persists recipes together with their ingredient rows and tags
type RecipeRepository interface {
	// Create inserts the recipe and its composition in one transaction
	Create(ctx context.Context, recipe *models.Recipe, ingredients []models.IngredientAmount, tags []models.Tag) error
	// Update overwrites the recipe columns and replaces the whole
	// composition in one transaction
	Update(ctx context.Context, recipe *models.Recipe, ingredients []models.IngredientAmount, tags []models.Tag) error
	// Delete removes the recipe and every row referencing it
	Delete(ctx context.Context, id uint) error
	// GetByID loads the recipe with author, tags and ingredients
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	// List returns a page of fully loaded recipes, newest first, and the
	// total number of matches
	List(ctx context.Context, filter RecipeFilter, page Page) ([]models.Recipe, int64, error)
	// ListByAuthor returns bare recipe rows, newest first. A negative limit
	// means all, zero means none.
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, ingredients []models.IngredientAmount, tags []models.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe, ingredients, tags)
	})
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, ingredients []models.IngredientAmount, tags []models.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(recipe).
			Select("name", "image", "text", "cooking_time", "updated_at").
			Updates(recipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceComposition(tx, recipe, ingredients, tags)
	})
}

// replaceComposition deletes and reinserts the ingredient rows and swaps the tag set
func replaceComposition(tx *gorm.DB, recipe *models.Recipe, ingredients []models.IngredientAmount, tags []models.Tag) error {
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	if len(rows) > 0 {
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}
	recipe.Ingredients = rows
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.FavoriteRecipe{},
			&models.ShoppingList{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// withDetails preloads everything the detail view renders
func withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Recipe{})
	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.FavoritedBy != 0 {
		favorites := r.db.Model(&models.FavoriteRecipe{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy)
		q = q.Where("recipes.id IN (?)", favorites)
	}
	if f.InCartOf != 0 {
		cart := r.db.Model(&models.ShoppingList{}).Select("recipe_id").Where("user_id = ?", f.InCartOf)
		q = q.Where("recipes.id IN (?)", cart)
	}
	return q
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, page Page) ([]models.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var recipes []models.Recipe
	q := page.apply(withDetails(r.filtered(ctx, filter)).Order("recipes.id DESC"))
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if limit == 0 {
		return recipes, nil
	}
	q := Page{Limit: limit}.apply(r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id DESC"))
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *recipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
