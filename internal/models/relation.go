package models

import "time"

// Subscription is a directed follow from User to Author.
type Subscription struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_subscription_pair"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_subscription_pair;index;check:chk_subscription_not_self,user_id <> author_id"`
	Author    User `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// FavoriteRecipe is a user's bookmark of a recipe.
type FavoriteRecipe struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_favorite_pair"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_favorite_pair;index"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// ShoppingList is one recipe in a user's cart.
type ShoppingList struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_shopping_pair"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_shopping_pair;index"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (ShoppingList) TableName() string {
	return "shopping_lists"
}
