package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ingredientAmountRequest is one entry of a recipe's ingredient list
type ingredientAmountRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// recipeRequest is the body of recipe create and update. Absent scalar
// fields keep their stored value on update.
type recipeRequest struct {
	Ingredients []ingredientAmountRequest `json:"ingredients"`
	Tags        []uint                    `json:"tags"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name"`
	Text        *string                   `json:"text"`
	CookingTime *int                      `json:"cooking_time"`
}

func (r recipeRequest) input() services.RecipeInput {
	in := services.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Tags:        r.Tags,
	}
	if r.Ingredients != nil {
		in.Ingredients = make([]models.IngredientAmount, len(r.Ingredients))
		for i, item := range r.Ingredients {
			in.Ingredients[i] = models.IngredientAmount{IngredientID: item.ID, Amount: item.Amount}
		}
	}
	return in
}

// RecipeController handles recipes and the caller's favorites and shopping cart
type RecipeController struct {
	recipes   services.RecipeService
	favorites services.MembershipService
	cart      services.MembershipService
	shopping  services.ShoppingService
	paginator Paginator
}

func NewRecipeController(recipes services.RecipeService, favorites, cart services.MembershipService, shopping services.ShoppingService, paginator Paginator) *RecipeController {
	return &RecipeController{
		recipes:   recipes,
		favorites: favorites,
		cart:      cart,
		shopping:  shopping,
		paginator: paginator,
	}
}

// ListRecipes godoc
// @Summary List recipes
// @Description Paginated recipes, newest first. The favorite and cart filters apply to authenticated callers only.
// @Tags recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query int false "Author id"
// @Param tags query []string false "Tag slugs, any match" collectionFormat(multi)
// @Param is_favorited query int false "1 to list the caller's favorites"
// @Param is_in_shopping_cart query int false "1 to list the caller's cart"
// @Success 200 {object} Page{results=[]presenter.RecipeDetail}
// @Failure 404 {object} models.APIError
// @Router /api/recipes/ [get]
func (rc *RecipeController) ListRecipes(c *gin.Context) {
	page, ok := rc.paginator.Request(c)
	if !ok {
		return
	}
	q := services.RecipeQuery{
		PageRequest:      page,
		Tags:             c.QueryArray("tags"),
		IsFavorited:      flag(c, "is_favorited"),
		IsInShoppingCart: flag(c, "is_in_shopping_cart"),
		View:             presenter.DetailView,
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, models.NewValidationError(map[string][]string{"author": {"must be a user id"}}))
			return
		}
		q.AuthorID = uint(author)
	}

	result, err := rc.recipes.List(c.Request.Context(), middleware.CallerFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	rc.paginator.Respond(c, page, result.Count, result.Results)
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} presenter.RecipeDetail
// @Failure 404 {object} models.APIError
// @Router /api/recipes/{id}/ [get]
func (rc *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrRecipeMissing)
	if !ok {
		return
	}
	recipe, err := rc.recipes.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description Publishes a recipe authored by the caller. image is a base64 data URI.
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body recipeRequest true "Recipe"
// @Success 201 {object} presenter.RecipeDetail
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/ [post]
func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := rc.recipes.Create(c.Request.Context(), middleware.CallerFrom(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Only the author may update. Ingredients and tags are always required and replace the stored sets.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body recipeRequest true "Recipe"
// @Success 200 {object} presenter.RecipeDetail
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/ [patch]
func (rc *RecipeController) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrRecipeMissing)
	if !ok {
		return
	}
	var req recipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := rc.recipes.Update(c.Request.Context(), middleware.CallerFrom(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/ [delete]
func (rc *RecipeController) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrRecipeMissing)
	if !ok {
		return
	}
	if err := rc.recipes.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLink godoc
// @Summary Short link of a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Router /api/recipes/{id}/get-link/ [get]
func (rc *RecipeController) GetLink(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrRecipeMissing)
	if !ok {
		return
	}
	link, err := rc.recipes.ShortLink(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": link})
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags favorites
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} presenter.RecipeSummary
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/favorite/ [post]
func (rc *RecipeController) AddFavorite(c *gin.Context) {
	rc.add(c, rc.favorites)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags favorites
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/favorite/ [delete]
func (rc *RecipeController) RemoveFavorite(c *gin.Context) {
	rc.remove(c, rc.favorites)
}

// AddToShoppingCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags shopping cart
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} presenter.RecipeSummary
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (rc *RecipeController) AddToShoppingCart(c *gin.Context) {
	rc.add(c, rc.cart)
}

// RemoveFromShoppingCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags shopping cart
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (rc *RecipeController) RemoveFromShoppingCart(c *gin.Context) {
	rc.remove(c, rc.cart)
}

func (rc *RecipeController) add(c *gin.Context, set services.MembershipService) {
	id, ok := pathID(c, "id", models.ErrRecipeMissing)
	if !ok {
		return
	}
	summary, err := set.Add(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (rc *RecipeController) remove(c *gin.Context, set services.MembershipService) {
	id, ok := pathID(c, "id", models.ErrRecipeMissing)
	if !ok {
		return
	}
	if err := set.Remove(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart godoc
// @Summary Download the shopping list
// @Description One line per ingredient and unit with amounts summed across the cart
// @Tags shopping cart
// @Produce plain
// @Success 200 {string} string "name — amount unit"
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/download_shopping_cart/ [get]
func (rc *RecipeController) DownloadShoppingCart(c *gin.Context) {
	text, err := rc.shopping.Download(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
