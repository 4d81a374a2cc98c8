package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/recipes/", "200"))

	RecordAPIRequest("GET", "/api/recipes/", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/recipes/", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordToggle(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"accepted add", nil, "ok"},
		{"rejected add", errors.New("already exists"), "rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := MembershipToggles.WithLabelValues("favorite", "add", tt.outcome)
			before := testutil.ToFloat64(counter)

			RecordToggle("favorite", "add", tt.err)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestRecordDownloadAndRecipeWrite(t *testing.T) {
	downloads := ShoppingListDownloads.WithLabelValues("memory")
	writes := RecipesWritten.WithLabelValues("create")
	d0, w0 := testutil.ToFloat64(downloads), testutil.ToFloat64(writes)

	RecordDownload("memory")
	RecordRecipeWrite("create")

	assert.Equal(t, d0+1, testutil.ToFloat64(downloads))
	assert.Equal(t, w0+1, testutil.ToFloat64(writes))
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordRecipeWrite("delete")
	router := gin.New()
	router.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "foodgram_recipe_writes_total"))
}
