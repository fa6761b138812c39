package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
)

type samplePayload struct {
	Name  string `json:"name" binding:"required,min=3"`
	Email string `json:"email" binding:"required,email"`
	Image string `json:"image" binding:"omitempty,imageurl"`
}

func newContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func TestBindJSONReportsFieldsByJSONName(t *testing.T) {
	c, _ := newContext(`{"name":"ab","email":"nope","image":"https://x.io/a.txt"}`)

	var payload samplePayload
	err := BindJSON(c, &payload)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())

	paths := make([]string, 0)
	for _, f := range appErr.Fields() {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"name", "email", "image"}, paths)
}

type embeddedPayload struct {
	ID string `json:"id" binding:"required"`
	samplePayload
}

func TestBindJSONFlattensEmbeddedStructPaths(t *testing.T) {
	c, _ := newContext(`{"name":"Alice","email":"bad"}`)

	var payload embeddedPayload
	err := BindJSON(c, &payload)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)

	paths := make([]string, 0)
	for _, f := range appErr.Fields() {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"id", "email"}, paths)
}

func TestBindJSONAcceptsValidPayload(t *testing.T) {
	c, _ := newContext(`{"name":"Alice","email":"a@b.io","image":"https://cdn.io/pic.PNG"}`)

	var payload samplePayload
	require.NoError(t, BindJSON(c, &payload))
	assert.Equal(t, "Alice", payload.Name)
}

func TestBindJSONTypeMismatch(t *testing.T) {
	c, _ := newContext(`{"name":5,"email":"a@b.io"}`)

	var payload samplePayload
	err := BindJSON(c, &payload)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	require.Len(t, appErr.Fields(), 1)
	assert.Equal(t, "name", appErr.Fields()[0].Path)
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("http://site.com/img.jpeg"))
	assert.True(t, IsImageURL("https://site.com/img.webp?w=200"))
	assert.False(t, IsImageURL("ftp://site.com/img.png"))
	assert.False(t, IsImageURL("https://site.com/doc.pdf"))
}

func TestNotFoundEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.NoRoute(NotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not found", body["message"])

	msgs := body["errorMessages"].([]interface{})
	first := msgs[0].(map[string]interface{})
	assert.Equal(t, "/api/v1/missing", first["path"])
	assert.Equal(t, "API not found", first["message"])
}

func TestHandlerWritesAttachedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Handler(logger.Discard()))
	router.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })
	router.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.New("Slug is taken", http.StatusConflict, apperrors.ErrConflict, nil))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Slug is taken")
}
