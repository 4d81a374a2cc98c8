package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// SubscriptionService manages the authors a user follows. recipesLimit caps
// the recipe preview of each author; a value below 1 returns every recipe.
// AllRecipes as a recipes limit leaves the preview uncapped.
const AllRecipes = -1

type SubscriptionService interface {
	Subscribe(ctx context.Context, caller models.Caller, authorID uint, recipesLimit int) (*presenter.SubscriptionView, error)
	Unsubscribe(ctx context.Context, caller models.Caller, authorID uint) error
	// List returns a page of followed authors ordered by id
	List(ctx context.Context, caller models.Caller, page PageRequest, recipesLimit int) (ListResult[presenter.SubscriptionView], error)
}

type subscriptionService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	recipes       repository.RecipeRepository
}

func NewSubscriptionService(repos *repository.Repositories) SubscriptionService {
	return &subscriptionService{
		subscriptions: repos.Subscriptions,
		users:         repos.Users,
		recipes:       repos.Recipes,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, caller models.Caller, authorID uint, recipesLimit int) (view *presenter.SubscriptionView, err error) {
	defer func() { metrics.RecordToggle("subscription", "add", err) }()

	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if authorID == caller.UserID {
		return nil, models.ErrSubscribeSelf
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, notFound(err, models.ErrUserMissing)
	}
	if err := s.subscriptions.Add(ctx, caller.UserID, authorID); err != nil {
		return nil, duplicate(err, models.ErrSubscriptionExists)
	}
	log.WithFields(logrus.Fields{"user_id": caller.UserID, "author_id": authorID}).Debug("Subscribed")

	views, err := s.render(ctx, caller, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, caller models.Caller, authorID uint) (err error) {
	defer func() { metrics.RecordToggle("subscription", "remove", err) }()

	if err := requireCaller(caller); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return notFound(err, models.ErrUserMissing)
	}
	removed, err := s.subscriptions.Remove(ctx, caller.UserID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		return models.ErrSubscriptionAbsent
	}
	log.WithFields(logrus.Fields{"user_id": caller.UserID, "author_id": authorID}).Debug("Unsubscribed")
	return nil
}

func (s *subscriptionService) List(ctx context.Context, caller models.Caller, page PageRequest, recipesLimit int) (ListResult[presenter.SubscriptionView], error) {
	if err := requireCaller(caller); err != nil {
		return ListResult[presenter.SubscriptionView]{}, err
	}
	authors, total, err := s.subscriptions.Authors(ctx, caller.UserID, page.repository())
	if err != nil {
		return ListResult[presenter.SubscriptionView]{}, fmt.Errorf("list subscriptions: %w", err)
	}
	views, err := s.render(ctx, caller, authors, recipesLimit)
	if err != nil {
		return ListResult[presenter.SubscriptionView]{}, err
	}
	return ListResult[presenter.SubscriptionView]{Count: total, Results: views}, nil
}

// render builds the views of authors the caller follows
func (s *subscriptionService) render(ctx context.Context, caller models.Caller, authors []models.User, recipesLimit int) ([]presenter.SubscriptionView, error) {
	ids := uniqueIDs(authors, func(u models.User) uint { return u.ID })
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	followed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		followed[id] = true
	}
	rel := presenter.Relations{Subscribed: followed}

	views := make([]presenter.SubscriptionView, 0, len(authors))
	for _, author := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, presenter.Subscription(caller, author, recipes, counts[author.ID], rel))
	}
	return views, nil
}
