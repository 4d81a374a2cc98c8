package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
)

// TagInput creates a tag
type TagInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"required,max=100,slug"`
}

// IngredientInput creates an ingredient
type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=50"`
}

// ReferenceService serves tags and ingredients. Reads are public; writes
// need the admin role.
type ReferenceService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	// ListIngredients filters by a case-insensitive name prefix when one is given
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	CreateTag(ctx context.Context, caller models.Caller, in TagInput) (*models.Tag, error)
	CreateIngredient(ctx context.Context, caller models.Caller, in IngredientInput) (*models.Ingredient, error)
	// ImportTags bulk-loads tags, skipping those already present. It
	// returns how many were inserted.
	ImportTags(ctx context.Context, in []TagInput) (int64, error)
	// ImportIngredients bulk-loads ingredients, skipping names already present
	ImportIngredients(ctx context.Context, in []IngredientInput) (int64, error)
}

type referenceService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

func NewReferenceService(repos *repository.Repositories) ReferenceService {
	return &referenceService{tags: repos.Tags, ingredients: repos.Ingredients}
}

func (s *referenceService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *referenceService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrTagMissing)
	}
	return tag, nil
}

func (s *referenceService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx, strings.TrimSpace(namePrefix))
}

func (s *referenceService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrIngredientMissing)
	}
	return ingredient, nil
}

func (s *referenceService) CreateTag(ctx context.Context, caller models.Caller, in TagInput) (*models.Tag, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := structErrors(in); err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: in.Name, Slug: in.Slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, duplicate(err, models.NewValidationError(map[string][]string{
			"slug": {"a tag with this name or slug already exists"},
		}))
	}
	log.WithField("tag_id", tag.ID).Info("Tag created")
	return tag, nil
}

func (s *referenceService) CreateIngredient(ctx context.Context, caller models.Caller, in IngredientInput) (*models.Ingredient, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := structErrors(in); err != nil {
		return nil, err
	}
	ingredient := &models.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit}
	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		return nil, duplicate(err, models.NewValidationError(map[string][]string{
			"name": {"an ingredient with this name already exists"},
		}))
	}
	log.WithField("ingredient_id", ingredient.ID).Info("Ingredient created")
	return ingredient, nil
}

func (s *referenceService) ImportTags(ctx context.Context, in []TagInput) (int64, error) {
	tags := make([]models.Tag, 0, len(in))
	for i, t := range in {
		if err := structErrors(t); err != nil {
			return 0, fmt.Errorf("tag %d (%q): %w", i+1, t.Name, err)
		}
		tags = append(tags, models.Tag{Name: t.Name, Slug: t.Slug})
	}
	return s.tags.CreateMissing(ctx, tags)
}

func (s *referenceService) ImportIngredients(ctx context.Context, in []IngredientInput) (int64, error) {
	ingredients := make([]models.Ingredient, 0, len(in))
	for i, item := range in {
		if err := structErrors(item); err != nil {
			return 0, fmt.Errorf("ingredient %d (%q): %w", i+1, item.Name, err)
		}
		ingredients = append(ingredients, models.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit})
	}
	return s.ingredients.CreateMissing(ctx, ingredients)
}

func requireAdmin(caller models.Caller) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return models.ErrForbiddenRole
	}
	return nil
}
