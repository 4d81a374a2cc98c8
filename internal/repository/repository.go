// Package repository holds one gorm-backed repository per entity. Methods
// return gorm errors unchanged (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey)
// and leave their translation to the service layer.
package repository

import "gorm.io/gorm"

// Page bounds a list query. A non-positive Limit returns every row.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

// Repositories bundles every repository built over one connection.
type Repositories struct {
	Users         UserRepository
	Ingredients   IngredientRepository
	Tags          TagRepository
	Recipes       RecipeRepository
	Favorites     MembershipRepository
	ShoppingCart  ShoppingCartRepository
	Subscriptions SubscriptionRepository
}

// New builds all repositories over db
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Ingredients:   NewIngredientRepository(db),
		Tags:          NewTagRepository(db),
		Recipes:       NewRecipeRepository(db),
		Favorites:     NewFavoriteRepository(db),
		ShoppingCart:  NewShoppingCartRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
	}
}
