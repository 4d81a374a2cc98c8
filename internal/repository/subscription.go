package repository

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository stores follows from a user to an author
type SubscriptionRepository interface {
	Add(ctx context.Context, userID, authorID uint) error
	Remove(ctx context.Context, userID, authorID uint) (bool, error)
	// Authors returns a page of the authors userID follows, ordered by id
	Authors(ctx context.Context, userID uint, page Page) ([]models.User, int64, error)
	// Following returns the subset of authorIDs that userID follows
	Following(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Add(ctx context.Context, userID, authorID uint) error {
	sub := &models.Subscription{UserID: userID, AuthorID: authorID}
	return r.db.WithContext(ctx).Omit("User", "Author").Create(sub).Error
}

func (r *subscriptionRepository) Remove(ctx context.Context, userID, authorID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	return res.RowsAffected > 0, res.Error
}

func (r *subscriptionRepository) followed(ctx context.Context, userID uint) *gorm.DB {
	authors := r.db.Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", userID)
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", authors)
}

func (r *subscriptionRepository) Authors(ctx context.Context, userID uint, page Page) ([]models.User, int64, error) {
	var total int64
	if err := r.followed(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var authors []models.User
	if err := page.apply(r.followed(ctx, userID).Order("id")).Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

func (r *subscriptionRepository) Following(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return found, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}
