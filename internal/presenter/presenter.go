// Package presenter maps entities to API response shapes. Every function
// that renders caller-relative flags takes the caller explicitly; an
// anonymous caller always sees those flags as false.
package presenter

import (
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
)

// RecipeView selects the shape a recipe is rendered with.
type RecipeView int

const (
	SummaryView RecipeView = iota
	DetailView
)

// Relations holds the caller's memberships for the rows being rendered.
type Relations struct {
	Favorited  map[uint]bool
	InCart     map[uint]bool
	Subscribed map[uint]bool
}

// UserCreated is returned on registration.
type UserCreated struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProfile is the public profile snippet.
type UserProfile struct {
	Email        string  `json:"email"`
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// RecipeSummary is used in nested listings.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// IngredientLine is an ingredient with the amount a recipe needs.
type IngredientLine struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeDetail is the full recipe.
type RecipeDetail struct {
	ID               uint             `json:"id"`
	Tags             []models.Tag     `json:"tags"`
	Author           UserProfile      `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
}

// SubscriptionView is a followed author with a preview of their recipes.
type SubscriptionView struct {
	UserProfile
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func flag(caller models.Caller, set map[uint]bool, id uint) bool {
	if caller.IsAnonymous() {
		return false
	}
	return set[id]
}

func avatar(u models.User) *string {
	if u.Avatar == "" {
		return nil
	}
	a := u.Avatar
	return &a
}

func Created(u models.User) UserCreated {
	return UserCreated{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func Profile(caller models.Caller, u models.User, rel Relations) UserProfile {
	return UserProfile{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: flag(caller, rel.Subscribed, u.ID),
		Avatar:       avatar(u),
	}
}

func Profiles(caller models.Caller, users []models.User, rel Relations) []UserProfile {
	out := make([]UserProfile, len(users))
	for i, u := range users {
		out[i] = Profile(caller, u, rel)
	}
	return out
}

func Summary(r models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func Summaries(recipes []models.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, len(recipes))
	for i, r := range recipes {
		out[i] = Summary(r)
	}
	return out
}

// Detail expects r to be loaded with author, tags and ingredients.
func Detail(caller models.Caller, r models.Recipe, rel Relations) RecipeDetail {
	ingredients := make([]IngredientLine, len(r.Ingredients))
	for i, item := range r.Ingredients {
		ingredients[i] = IngredientLine{
			ID:              item.IngredientID,
			Name:            item.Ingredient.Name,
			MeasurementUnit: item.Ingredient.MeasurementUnit,
			Amount:          item.Amount,
		}
	}
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeDetail{
		ID:               r.ID,
		Tags:             tags,
		Author:           Profile(caller, r.Author, rel),
		Ingredients:      ingredients,
		IsFavorited:      flag(caller, rel.Favorited, r.ID),
		IsInShoppingCart: flag(caller, rel.InCart, r.ID),
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// Recipes renders a list in the selected view.
func Recipes(view RecipeView, caller models.Caller, recipes []models.Recipe, rel Relations) []interface{} {
	out := make([]interface{}, len(recipes))
	for i, r := range recipes {
		switch view {
		case DetailView:
			out[i] = Detail(caller, r, rel)
		default:
			out[i] = Summary(r)
		}
	}
	return out
}

// Subscription renders a followed author. recipes must already be capped
// by the caller-supplied limit; count is the author's total.
func Subscription(caller models.Caller, author models.User, recipes []models.Recipe, count int64, rel Relations) SubscriptionView {
	return SubscriptionView{
		UserProfile:  Profile(caller, author, rel),
		Recipes:      Summaries(recipes),
		RecipesCount: count,
	}
}
