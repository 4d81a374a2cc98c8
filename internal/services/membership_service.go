package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// MembershipService toggles a recipe in the caller's favorites or shopping cart
type MembershipService interface {
	// Add puts the recipe in the set. A second Add for the same recipe fails
	// with the set's "exists" error.
	Add(ctx context.Context, caller models.Caller, recipeID uint) (*presenter.RecipeSummary, error)
	// Remove takes the recipe out of the set. Removing a recipe that is not
	// in the set fails with the set's "missing" error.
	Remove(ctx context.Context, caller models.Caller, recipeID uint) error
}

type membershipService struct {
	kind    string
	members repository.MembershipRepository
	recipes repository.RecipeRepository
	exists  *models.DomainError
	missing *models.DomainError
}

// NewFavoriteService manages favorites
func NewFavoriteService(repos *repository.Repositories) MembershipService {
	return &membershipService{
		kind:    "favorite",
		members: repos.Favorites,
		recipes: repos.Recipes,
		exists:  models.ErrFavoriteExists,
		missing: models.ErrFavoriteMissing,
	}
}

// NewShoppingCartService manages the shopping cart
func NewShoppingCartService(repos *repository.Repositories) MembershipService {
	return &membershipService{
		kind:    "shopping_cart",
		members: repos.ShoppingCart,
		recipes: repos.Recipes,
		exists:  models.ErrCartEntryExists,
		missing: models.ErrCartEntryMissing,
	}
}

func (s *membershipService) Add(ctx context.Context, caller models.Caller, recipeID uint) (summary *presenter.RecipeSummary, err error) {
	defer func() { metrics.RecordToggle(s.kind, "add", err) }()

	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, notFound(err, models.ErrRecipeMissing)
	}
	// the unique pair index decides concurrent adds
	if err := s.members.Add(ctx, caller.UserID, recipeID); err != nil {
		return nil, duplicate(err, s.exists)
	}
	log.WithFields(logrus.Fields{"kind": s.kind, "user_id": caller.UserID, "recipe_id": recipeID}).Debug("Membership added")
	view := presenter.Summary(*recipe)
	return &view, nil
}

func (s *membershipService) Remove(ctx context.Context, caller models.Caller, recipeID uint) (err error) {
	defer func() { metrics.RecordToggle(s.kind, "remove", err) }()

	if err := requireCaller(caller); err != nil {
		return err
	}
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrRecipeMissing
	}
	removed, err := s.members.Remove(ctx, caller.UserID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return s.missing
	}
	log.WithFields(logrus.Fields{"kind": s.kind, "user_id": caller.UserID, "recipe_id": recipeID}).Debug("Membership removed")
	return nil
}
