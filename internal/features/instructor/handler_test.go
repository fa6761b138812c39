package instructor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

func newTestRouter(f *fixture, caller *middleware.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	setCaller := func(c *gin.Context) {
		middleware.SetUser(c, caller)
		c.Next()
	}
	guards := []gin.HandlerFunc{setCaller}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(f.service, logger.Discard()), guards, guards)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccountStatusEndpoint(t *testing.T) {
	f := newFixture()
	usr := f.users.add("Ada", "ada@example.com", types.RoleSubscriber)
	caller := &middleware.User{ID: usr.ID, Roles: usr.Roles}
	r := newTestRouter(f, caller)

	w := serve(r, http.MethodPost, "/api/v1/instructor/make-instructor", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "stripe_user%5Bemail%5D=ada%40example.com")

	w = serve(r, http.MethodPost, "/api/v1/instructor/get-account-status", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.provider.chargesEnabled = true
	w = serve(r, http.MethodPost, "/api/v1/instructor/get-account-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Instructor")

	w = serve(r, http.MethodGet, "/api/v1/instructor/payout-settings", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPayoutSettingsWithoutSeller(t *testing.T) {
	f := newFixture()
	usr := f.users.add("Ada", "ada@example.com", types.RoleInstructor)
	r := newTestRouter(f, &middleware.User{ID: usr.ID, Roles: usr.Roles})

	w := serve(r, http.MethodGet, "/api/v1/instructor/payout-settings", "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Stripe seller account not found")
}

func TestStudentCountEndpoint(t *testing.T) {
	f := newFixture()
	owner := f.users.add("Grace", "grace@example.com", types.RoleInstructor)
	c := &course.Course{Name: "Go", Slug: "go", InstructorID: owner.ID}
	c.ID = uuid.New()
	f.courses.courses[c.ID] = c

	stranger := newTestRouter(f, &middleware.User{ID: uuid.New(), Roles: types.NewRoleSet(types.RoleInstructor)})
	w := serve(stranger, http.MethodPost, "/api/v1/instructor/student-count", `{"courseId":"`+c.ID.String()+`"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r := newTestRouter(f, &middleware.User{ID: owner.ID, Roles: owner.Roles})
	w = serve(r, http.MethodPost, "/api/v1/instructor/student-count", `{"courseId":"`+c.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	w = serve(r, http.MethodPost, "/api/v1/instructor/student-count", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
