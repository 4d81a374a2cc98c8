// Package controllers maps HTTP requests onto the service layer.
package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(os.Getenv("APP_ENV")))
}

// SetLogLevel aligns this package's logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Page is the paginated list envelope
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

var errMalformedBody = &models.DomainError{Kind: models.KindValidation, Code: models.ErrBadRequest, Message: "malformed request body"}

// respondError writes a domain error with its status. Anything else is
// logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	var domainErr *models.DomainError
	if errors.As(err, &domainErr) {
		log.WithError(err).Debug("Request failed with domain error")
		c.AbortWithStatusJSON(domainErr.Kind.Status(), domainErr.APIError())
		return
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("Unexpected error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "internal server error"))
}

// bindJSON decodes the body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, &models.DomainError{
			Kind:    errMalformedBody.Kind,
			Code:    errMalformedBody.Code,
			Message: errMalformedBody.Message,
			Fields:  map[string][]string{"non_field_errors": {err.Error()}},
		})
		return false
	}
	return true
}

// pathID parses the :name path parameter. A malformed id answers 404 with
// the given error, as no such resource can exist.
func pathID(c *gin.Context, name string, missing *models.DomainError) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, missing)
		return 0, false
	}
	return uint(id), true
}

// Paginator reads page and limit query parameters
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

// Request parses page and limit. An unparsable page answers 404; a bad
// limit falls back to the default.
func (p Paginator) Request(c *gin.Context) (services.PageRequest, bool) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, models.ErrInvalidPage)
			return services.PageRequest{}, false
		}
		page = n
	}

	limit := p.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	// page*limit must not overflow when computing offsets
	if limit > 0 && page > math.MaxInt/limit {
		respondError(c, models.ErrInvalidPage)
		return services.PageRequest{}, false
	}
	return services.PageRequest{Page: page, Limit: limit}, true
}

// Respond writes the envelope for one page, or 404 when the page lies past
// the last one
func (p Paginator) Respond(c *gin.Context, req services.PageRequest, count int64, results interface{}) {
	if req.Page > 1 && int64((req.Page-1)*req.Limit) >= count {
		respondError(c, models.ErrInvalidPage)
		return
	}
	out := Page{Count: count, Results: results}
	if int64(req.Page*req.Limit) < count {
		out.Next = pageURL(c, req.Page+1)
	}
	if req.Page > 1 {
		out.Previous = pageURL(c, req.Page-1)
	}
	c.JSON(http.StatusOK, out)
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// recipesLimit parses recipes_limit. Absent means no cap, 0 an empty preview.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return services.AllRecipes, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, models.NewValidationError(map[string][]string{
			"recipes_limit": {fmt.Sprintf("must be a non-negative integer, got %q", raw)},
		}))
		return 0, false
	}
	return n, true
}

// flag reads a 0/1 query flag
func flag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
