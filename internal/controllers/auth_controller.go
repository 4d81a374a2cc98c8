package controllers

import (
	"context"
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// TokenIssuer issues and revokes access tokens
type TokenIssuer interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, access string) error
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"auth_token"`
}

type AuthController struct {
	tokens TokenIssuer
}

func NewAuthController(tokens TokenIssuer) *AuthController {
	return &AuthController{tokens: tokens}
}

// Login godoc
// @Summary Obtain an auth token
// @Description Send the token back as "Authorization: Token <auth_token>" or "Bearer <auth_token>"
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and password"
// @Success 200 {object} loginResponse
// @Failure 400 {object} models.APIError
// @Router /api/auth/token/login/ [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := ac.tokens.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{AuthToken: token})
}

// Logout godoc
// @Summary Revoke the current token
// @Tags auth
// @Success 204
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/auth/token/logout/ [post]
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.tokens.Logout(c.Request.Context(), middleware.AccessTokenFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
