package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
)

// relationLoader fetches the caller's memberships for a batch of rows so
// rendering a page costs a fixed number of queries
type relationLoader struct {
	favorites     repository.MembershipRepository
	cart          repository.MembershipRepository
	subscriptions repository.SubscriptionRepository
}

func newRelationLoader(repos *repository.Repositories) relationLoader {
	return relationLoader{
		favorites:     repos.Favorites,
		cart:          repos.ShoppingCart,
		subscriptions: repos.Subscriptions,
	}
}

func (l relationLoader) forRecipes(ctx context.Context, caller models.Caller, recipes []models.Recipe) (presenter.Relations, error) {
	if caller.IsAnonymous() || len(recipes) == 0 {
		return presenter.Relations{}, nil
	}
	recipeIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
	}
	favorited, err := l.favorites.Contains(ctx, caller.UserID, recipeIDs)
	if err != nil {
		return presenter.Relations{}, err
	}
	inCart, err := l.cart.Contains(ctx, caller.UserID, recipeIDs)
	if err != nil {
		return presenter.Relations{}, err
	}
	authorIDs := uniqueIDs(recipes, func(r models.Recipe) uint { return r.AuthorID })
	subscribed, err := l.subscriptions.Following(ctx, caller.UserID, authorIDs)
	if err != nil {
		return presenter.Relations{}, err
	}
	return presenter.Relations{Favorited: favorited, InCart: inCart, Subscribed: subscribed}, nil
}

func (l relationLoader) forUsers(ctx context.Context, caller models.Caller, users []models.User) (presenter.Relations, error) {
	if caller.IsAnonymous() || len(users) == 0 {
		return presenter.Relations{}, nil
	}
	ids := uniqueIDs(users, func(u models.User) uint { return u.ID })
	subscribed, err := l.subscriptions.Following(ctx, caller.UserID, ids)
	if err != nil {
		return presenter.Relations{}, err
	}
	return presenter.Relations{Subscribed: subscribed}, nil
}
