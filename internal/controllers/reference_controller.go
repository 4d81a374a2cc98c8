package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReferenceController serves tags and ingredients
type ReferenceController struct {
	service services.ReferenceService
}

func NewReferenceController(service services.ReferenceService) *ReferenceController {
	return &ReferenceController{service: service}
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/tags/ [get]
func (rc *ReferenceController) ListTags(c *gin.Context) {
	tags, err := rc.service.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} models.Tag
// @Failure 404 {object} models.APIError
// @Router /api/tags/{id}/ [get]
func (rc *ReferenceController) GetTag(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrTagMissing)
	if !ok {
		return
	}
	tag, err := rc.service.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ListIngredients godoc
// @Summary List ingredients
// @Tags ingredients
// @Produce json
// @Param name query string false "Case-insensitive name prefix"
// @Success 200 {array} models.Ingredient
// @Router /api/ingredients/ [get]
func (rc *ReferenceController) ListIngredients(c *gin.Context) {
	ingredients, err := rc.service.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient godoc
// @Summary Get an ingredient
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} models.Ingredient
// @Failure 404 {object} models.APIError
// @Router /api/ingredients/{id}/ [get]
func (rc *ReferenceController) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id", models.ErrIngredientMissing)
	if !ok {
		return
	}
	ingredient, err := rc.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags admin
// @Accept json
// @Produce json
// @Param tag body services.TagInput true "Tag"
// @Success 201 {object} models.Tag
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/tags/ [post]
func (rc *ReferenceController) CreateTag(c *gin.Context) {
	var req services.TagInput
	if !bindJSON(c, &req) {
		return
	}
	tag, err := rc.service.CreateTag(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// CreateIngredient godoc
// @Summary Create an ingredient
// @Tags admin
// @Accept json
// @Produce json
// @Param ingredient body services.IngredientInput true "Ingredient"
// @Success 201 {object} models.Ingredient
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/ingredients/ [post]
func (rc *ReferenceController) CreateIngredient(c *gin.Context) {
	var req services.IngredientInput
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := rc.service.CreateIngredient(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}
