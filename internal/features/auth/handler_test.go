package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

type usersLoader struct {
	users *fakeUsers
}

func (l usersLoader) LoadUser(ctx context.Context, id uuid.UUID) (*middleware.User, error) {
	usr, err := l.users.Get(ctx, id)
	if err != nil {
		return nil, middleware.ErrUserNotFound
	}
	return &middleware.User{ID: usr.ID, Name: usr.Name, Email: usr.Email, Roles: usr.Roles}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, users, _ := newTestService()
	handler := NewHandler(svc, logger.Discard(), CookieConfig{Name: "token", MaxAge: 3600}, false, "")
	auth := middleware.New(usersLoader{users: users}, testSecret, "token", logger.Discard())

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), handler, auth.RequireRoles(), func(c *gin.Context) { c.Next() })
	return r, users
}

func doJSON(r http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegisterLoginCurrentUserFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", `{"name":"Ada","email":"ada@example.com","password":"password1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password1")
	assert.Equal(t, "User created successfully.", decode(t, w).Message)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/register", `{"name":"Ada","email":"ada@example.com","password":"password1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exist", decode(t, w).Message)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, 3600, session.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)

	w = doJSON(r, http.MethodGet, "/api/v1/auth/current-user", "", session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "User found successfully.", decode(t, w).Message)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"email":"ghost@example.com","password":"password1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password not match", decode(t, w).Message)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", `{"name":"Ada","email":"not-an-email","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	paths := map[string]bool{}
	for _, fe := range env.ErrorMessages {
		paths[fe.Path] = true
	}
	assert.True(t, paths["email"])
	assert.True(t, paths["password"])
}

func TestCurrentUserRequiresSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/current-user", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSendTestEmailHiddenInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService()
	handler := NewHandler(svc, logger.Discard(), CookieConfig{}, true, "ops@example.com")

	r := gin.New()
	r.POST("/send-test-email", handler.SendTestEmail)

	w := doJSON(r, http.MethodPost, "/send-test-email", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
