package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/shopping"
	"github.com/sirupsen/logrus"
)

// Aggregation selects where the shopping list is summed
type Aggregation string

const (
	// AggregateInStore sums with GROUP BY in the database
	AggregateInStore Aggregation = "store"
	// AggregateInMemory loads every cart ingredient row and sums in Go
	AggregateInMemory Aggregation = "memory"
)

// ShoppingService builds the consolidated shopping list of a cart
type ShoppingService interface {
	// Lines returns one line per (ingredient name, unit), ordered by name then unit
	Lines(ctx context.Context, caller models.Caller) ([]shopping.Line, error)
	// Download renders the list as the text of the downloadable file
	Download(ctx context.Context, caller models.Caller) (string, error)
}

type shoppingService struct {
	cart        repository.ShoppingCartRepository
	aggregation Aggregation
}

func NewShoppingService(cart repository.ShoppingCartRepository, aggregation Aggregation) ShoppingService {
	if aggregation != AggregateInMemory {
		aggregation = AggregateInStore
	}
	return &shoppingService{cart: cart, aggregation: aggregation}
}

func (s *shoppingService) Lines(ctx context.Context, caller models.Caller) ([]shopping.Line, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	switch s.aggregation {
	case AggregateInMemory:
		items, err := s.cart.Items(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("load cart items: %w", err)
		}
		return shopping.Consolidate(items), nil
	default:
		totals, err := s.cart.SumIngredients(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("sum cart items: %w", err)
		}
		return shopping.FromTotals(totals), nil
	}
}

func (s *shoppingService) Download(ctx context.Context, caller models.Caller) (string, error) {
	lines, err := s.Lines(ctx, caller)
	if err != nil {
		return "", err
	}
	metrics.RecordDownload(string(s.aggregation))
	log.WithFields(logrus.Fields{"user_id": caller.UserID, "lines": len(lines)}).Debug("Shopping list rendered")
	return shopping.Text(lines, shopping.Line.Download), nil
}
