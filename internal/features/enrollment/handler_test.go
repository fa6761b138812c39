package enrollment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

func newTestRouter(f *fixture, caller *middleware.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	setCaller := func(c *gin.Context) {
		if caller != nil {
			middleware.SetUser(c, caller)
		}
		c.Next()
	}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(f.service, logger.Discard()), []gin.HandlerFunc{setCaller})
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestEnrollmentEndpoints(t *testing.T) {
	f := newFixture()
	free := f.addCourse("free-go", false, 0, "")
	caller := &middleware.User{ID: f.student, Email: "student@example.com", Roles: types.NewRoleSet(types.RoleSubscriber)}
	r := newTestRouter(f, caller)

	w := serve(r, http.MethodGet, "/api/v1/course/user/single-course/free-go")
	require.Equal(t, http.StatusForbidden, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "You are not enrolled in this course", env.Message)

	w = serve(r, http.MethodPost, "/api/v1/course/free-enrollment/"+free.ID.String())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/course/check-enrollment/"+free.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":true`)

	w = serve(r, http.MethodGet, "/api/v1/course/user/single-course/free-go")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userAlreadyReviewed":false`)

	w = serve(r, http.MethodPost, "/api/v1/course/paid-enrollment/"+free.ID.String())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEnrollmentEndpointsRejectBadInput(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f, &middleware.User{ID: f.student})

	w := serve(r, http.MethodPost, "/api/v1/course/free-enrollment/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/api/v1/course/free-enrollment/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)

	anonymous := newTestRouter(f, nil)
	w = serve(anonymous, http.MethodGet, "/api/v1/course/user-courses")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStripeSuccessWithoutSession(t *testing.T) {
	f := newFixture()
	paid := f.addCourse("paid-go", true, 20, "acct_1")
	r := newTestRouter(f, &middleware.User{ID: f.student})

	w := serve(r, http.MethodGet, "/api/v1/course/stripe-success/"+paid.ID.String())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Stripe session ID not found or invalid")
}
