package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers mounted under /api
type Handlers struct {
	Auth      *AuthController
	Clients   *ClientController
	Recipes   *RecipeController
	Users     *UserController
	Reference *ReferenceController
	// OAuthToken serves the OAuth2 token endpoint
	OAuthToken gin.HandlerFunc
}

// RegisterRoutes mounts the API. authenticate resolves the caller of every
// /api request.
func RegisterRoutes(router *gin.Engine, h Handlers, authenticate gin.HandlerFunc) {
	router.GET("/health", healthCheckHandler)
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	api.Use(authenticate)
	requireAuth := middleware.RequireAuth()

	auth := api.Group("/auth")
	{
		auth.POST("/token/login/", h.Auth.Login)
		auth.POST("/token/logout/", requireAuth, h.Auth.Logout)
		auth.POST("/oauth/token", h.OAuthToken)

		clients := auth.Group("/clients", requireAuth)
		clients.POST("/", h.Clients.CreateClient)
		clients.GET("/", h.Clients.ListClients)
		clients.DELETE("/:id/", h.Clients.DeleteClient)
	}

	users := api.Group("/users")
	{
		users.GET("/", h.Users.ListUsers)
		users.POST("/", h.Users.Register)
		users.GET("/me/", requireAuth, h.Users.Me)
		users.PUT("/me/avatar/", requireAuth, h.Users.SetAvatar)
		users.DELETE("/me/avatar/", requireAuth, h.Users.DeleteAvatar)
		users.POST("/set_password/", requireAuth, h.Users.SetPassword)
		users.GET("/subscriptions/", requireAuth, h.Users.Subscriptions)
		users.GET("/:id/", h.Users.GetUser)
		users.POST("/:id/subscribe/", requireAuth, h.Users.Subscribe)
		users.DELETE("/:id/subscribe/", requireAuth, h.Users.Unsubscribe)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("/", h.Recipes.ListRecipes)
		recipes.POST("/", requireAuth, h.Recipes.CreateRecipe)
		recipes.GET("/download_shopping_cart/", requireAuth, h.Recipes.DownloadShoppingCart)
		recipes.GET("/:id/", h.Recipes.GetRecipe)
		recipes.PATCH("/:id/", requireAuth, h.Recipes.UpdateRecipe)
		recipes.DELETE("/:id/", requireAuth, h.Recipes.DeleteRecipe)
		recipes.GET("/:id/get-link/", h.Recipes.GetLink)
		recipes.POST("/:id/favorite/", requireAuth, h.Recipes.AddFavorite)
		recipes.DELETE("/:id/favorite/", requireAuth, h.Recipes.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", requireAuth, h.Recipes.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart/", requireAuth, h.Recipes.RemoveFromShoppingCart)
	}

	api.GET("/tags/", h.Reference.ListTags)
	api.GET("/tags/:id/", h.Reference.GetTag)
	api.GET("/ingredients/", h.Reference.ListIngredients)
	api.GET("/ingredients/:id/", h.Reference.GetIngredient)

	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/tags/", h.Reference.CreateTag)
		admin.POST("/ingredients/", h.Reference.CreateIngredient)
	}
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-foodgram-api",
	})
}
