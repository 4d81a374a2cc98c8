package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/media"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// RecipeQuery filters and pages a recipe listing. IsFavorited and
// IsInShoppingCart are ignored for anonymous callers.
type RecipeQuery struct {
	PageRequest
	AuthorID         uint
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
	View             presenter.RecipeView
}

// RecipeService provides the recipe use cases
type RecipeService interface {
	// Create publishes a recipe authored by the caller
	Create(ctx context.Context, caller models.Caller, in RecipeInput) (*presenter.RecipeDetail, error)
	// Update changes a recipe owned by the caller, replacing its ingredients and tags
	Update(ctx context.Context, caller models.Caller, id uint, in RecipeInput) (*presenter.RecipeDetail, error)
	// Delete removes a recipe owned by the caller with everything referencing it
	Delete(ctx context.Context, caller models.Caller, id uint) error
	// Get retrieves a recipe in the detail view
	Get(ctx context.Context, caller models.Caller, id uint) (*presenter.RecipeDetail, error)
	// List returns one page of recipes, newest first
	List(ctx context.Context, caller models.Caller, q RecipeQuery) (ListResult[interface{}], error)
	// ShortLink returns the short link of an existing recipe
	ShortLink(ctx context.Context, id uint) (string, error)
}

type recipeService struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	relations   relationLoader
	media       media.Store
	rules       RecipeRules
	siteURL     string
}

// NewRecipeService creates a new instance of RecipeService
func NewRecipeService(repos *repository.Repositories, store media.Store, rules RecipeRules, siteURL string) RecipeService {
	return &recipeService{
		recipes:     repos.Recipes,
		ingredients: repos.Ingredients,
		tags:        repos.Tags,
		relations:   newRelationLoader(repos),
		media:       store,
		rules:       rules,
		siteURL:     siteURL,
	}
}

func (s *recipeService) Create(ctx context.Context, caller models.Caller, in RecipeInput) (*presenter.RecipeDetail, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.rules.Validate(in, false); err != nil {
		return nil, err
	}
	tags, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	image, err := saveImage(ctx, s.media, media.RecipeImages, "image", *in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    caller.UserID,
		Name:        *in.Name,
		Text:        *in.Text,
		Image:       image,
		CookingTime: *in.CookingTime,
	}
	if err := s.recipes.Create(ctx, recipe, in.Ingredients, tags); err != nil {
		s.discardImage(ctx, image)
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	metrics.RecordRecipeWrite("create")
	log.WithFields(logrus.Fields{"recipe_id": recipe.ID, "author_id": caller.UserID}).Info("Recipe created")
	return s.Get(ctx, caller, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, caller models.Caller, id uint, in RecipeInput) (*presenter.RecipeDetail, error) {
	recipe, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.rules.Validate(in, true); err != nil {
		return nil, err
	}
	tags, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	oldImage := ""
	if in.Image != nil {
		image, err := saveImage(ctx, s.media, media.RecipeImages, "image", *in.Image)
		if err != nil {
			return nil, err
		}
		oldImage, recipe.Image = recipe.Image, image
	}
	if in.Name != nil {
		recipe.Name = *in.Name
	}
	if in.Text != nil {
		recipe.Text = *in.Text
	}
	if in.CookingTime != nil {
		recipe.CookingTime = *in.CookingTime
	}

	if err := s.recipes.Update(ctx, recipe, in.Ingredients, tags); err != nil {
		if oldImage != "" {
			s.discardImage(ctx, recipe.Image)
		}
		return nil, notFound(err, models.ErrRecipeMissing)
	}
	if oldImage != "" {
		s.discardImage(ctx, oldImage)
	}
	metrics.RecordRecipeWrite("update")
	log.WithField("recipe_id", id).Info("Recipe updated")
	return s.Get(ctx, caller, id)
}

func (s *recipeService) Delete(ctx context.Context, caller models.Caller, id uint) error {
	recipe, err := s.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return notFound(err, models.ErrRecipeMissing)
	}
	s.discardImage(ctx, recipe.Image)
	metrics.RecordRecipeWrite("delete")
	log.WithField("recipe_id", id).Info("Recipe deleted")
	return nil
}

func (s *recipeService) Get(ctx context.Context, caller models.Caller, id uint) (*presenter.RecipeDetail, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrRecipeMissing)
	}
	rel, err := s.relations.forRecipes(ctx, caller, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	detail := presenter.Detail(caller, *recipe, rel)
	return &detail, nil
}

func (s *recipeService) List(ctx context.Context, caller models.Caller, q RecipeQuery) (ListResult[interface{}], error) {
	filter := repository.RecipeFilter{AuthorID: q.AuthorID, TagSlugs: q.Tags}
	if !caller.IsAnonymous() {
		if q.IsFavorited {
			filter.FavoritedBy = caller.UserID
		}
		if q.IsInShoppingCart {
			filter.InCartOf = caller.UserID
		}
	}
	recipes, total, err := s.recipes.List(ctx, filter, q.repository())
	if err != nil {
		return ListResult[interface{}]{}, fmt.Errorf("list recipes: %w", err)
	}
	rel, err := s.relations.forRecipes(ctx, caller, recipes)
	if err != nil {
		return ListResult[interface{}]{}, err
	}
	return ListResult[interface{}]{
		Count:   total,
		Results: presenter.Recipes(q.View, caller, recipes, rel),
	}, nil
}

func (s *recipeService) ShortLink(ctx context.Context, id uint) (string, error) {
	exists, err := s.recipes.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", models.ErrRecipeMissing
	}
	return s.siteURL + "/s/" + ShortCode(id), nil
}

// ShortCode is the first five hex digits of the MD5 of the decimal id
func ShortCode(id uint) string {
	sum := md5.Sum([]byte(strconv.FormatUint(uint64(id), 10)))
	return hex.EncodeToString(sum[:])[:5]
}

// owned loads a recipe the caller may modify
func (s *recipeService) owned(ctx context.Context, caller models.Caller, id uint) (*models.Recipe, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrRecipeMissing)
	}
	if recipe.AuthorID != caller.UserID {
		return nil, models.ErrNotRecipeOwner
	}
	return recipe, nil
}

// resolve checks every referenced ingredient and tag exists and returns the tags
func (s *recipeService) resolve(ctx context.Context, in RecipeInput) ([]models.Tag, error) {
	fields := fieldErrors{}

	ingredientIDs := uniqueIDs(in.Ingredients, func(i models.IngredientAmount) uint { return i.IngredientID })
	ingredients, err := s.ingredients.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(ingredients))
	for _, i := range ingredients {
		known[i.ID] = true
	}
	for _, id := range ingredientIDs {
		if !known[id] {
			fields.add("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
		}
	}

	tags, err := s.tags.FindByIDs(ctx, uniqueIDs(in.Tags, func(id uint) uint { return id }))
	if err != nil {
		return nil, err
	}
	knownTags := make(map[uint]bool, len(tags))
	for _, t := range tags {
		knownTags[t.ID] = true
	}
	for _, id := range in.Tags {
		if !knownTags[id] {
			fields.add("tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}

	if err := fields.err(); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *recipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Delete(ctx, url); err != nil {
		log.WithError(err).WithField("url", url).Warn("Failed to remove recipe image")
	}
}

// saveImage decodes a data URI and stores it, reporting decode failures
// against field
func saveImage(ctx context.Context, store media.Store, dir, field, dataURI string) (string, error) {
	img, err := media.ParseDataURI(dataURI)
	if err != nil {
		return "", models.NewValidationError(map[string][]string{field: {media.ErrInvalidImage.Error()}})
	}
	url, err := store.Save(ctx, dir, img)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", field, err)
	}
	return url, nil
}
