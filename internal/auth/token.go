package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleToken handles the OAuth2 token endpoint for password and client credentials grants
// @Summary Token Endpoint
// @Description Obtain an access token using the password grant (username is the email) or client credentials
// @Tags auth
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: password or client_credentials"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param username formData string false "Email (password grant)"
// @Param password formData string false "Password (password grant)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if err := o.server.HandleTokenRequest(c.Writer, c.Request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
