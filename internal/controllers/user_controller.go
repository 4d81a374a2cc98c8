package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// UserController handles accounts, profiles and subscriptions
type UserController struct {
	users         services.UserService
	subscriptions services.SubscriptionService
	paginator     Paginator
}

func NewUserController(users services.UserService, subscriptions services.SubscriptionService, paginator Paginator) *UserController {
	return &UserController{users: users, subscriptions: subscriptions, paginator: paginator}
}

// Register godoc
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.Registration true "Account"
// @Success 201 {object} presenter.UserCreated
// @Failure 400 {object} models.APIError
// @Router /api/users/ [post]
func (uc *UserController) Register(c *gin.Context) {
	var req services.Registration
	if !bindJSON(c, &req) {
		return
	}
	user, err := uc.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} Page{results=[]presenter.UserProfile}
// @Router /api/users/ [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	page, ok := uc.paginator.Request(c)
	if !ok {
		return
	}
	result, err := uc.users.List(c.Request.Context(), middleware.CallerFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	uc.paginator.Respond(c, page, result.Count, result.Results)
}

// GetUser godoc
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} presenter.UserProfile
// @Failure 404 {object} models.APIError
// @Router /api/users/{id}/ [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrUserMissing)
	if !ok {
		return
	}
	user, err := uc.users.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} presenter.UserProfile
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/me/ [get]
func (uc *UserController) Me(c *gin.Context) {
	user, err := uc.users.Me(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPassword godoc
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Param passwords body setPasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/set_password/ [post]
func (uc *UserController) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := uc.users.SetPassword(c.Request.Context(), middleware.CallerFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAvatar godoc
// @Summary Upload the caller's avatar
// @Description avatar is a base64 data URI
// @Tags users
// @Accept json
// @Produce json
// @Param avatar body avatarRequest true "Avatar"
// @Success 200 {object} avatarRequest
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/me/avatar/ [put]
func (uc *UserController) SetAvatar(c *gin.Context) {
	var req avatarRequest
	if !bindJSON(c, &req) {
		return
	}
	url, err := uc.users.SetAvatar(c.Request.Context(), middleware.CallerFrom(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avatarRequest{Avatar: url})
}

// DeleteAvatar godoc
// @Summary Remove the caller's avatar
// @Tags users
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/me/avatar/ [delete]
func (uc *UserController) DeleteAvatar(c *gin.Context) {
	if err := uc.users.DeleteAvatar(c.Request.Context(), middleware.CallerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscribe godoc
// @Summary Follow an author
// @Tags subscriptions
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Cap on the recipe preview"
// @Success 201 {object} presenter.SubscriptionView
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/{id}/subscribe/ [post]
func (uc *UserController) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrUserMissing)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	view, err := uc.subscriptions.Subscribe(c.Request.Context(), middleware.CallerFrom(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Unsubscribe godoc
// @Summary Stop following an author
// @Tags subscriptions
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/{id}/subscribe/ [delete]
func (uc *UserController) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrUserMissing)
	if !ok {
		return
	}
	if err := uc.subscriptions.Unsubscribe(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions godoc
// @Summary Authors the caller follows
// @Tags subscriptions
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Cap on each recipe preview"
// @Success 200 {object} Page{results=[]presenter.SubscriptionView}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/subscriptions/ [get]
func (uc *UserController) Subscriptions(c *gin.Context) {
	page, ok := uc.paginator.Request(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	result, err := uc.subscriptions.List(c.Request.Context(), middleware.CallerFrom(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	uc.paginator.Respond(c, page, result.Count, result.Results)
}
