package enrollment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// Handler processes enrollment HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an enrollment handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// FreeEnrollment enrolls the caller in a free course.
func (h *Handler) FreeEnrollment(c *gin.Context) {
	caller, courseID, ok := h.callerAndCourse(c)
	if !ok {
		return
	}

	enrolled, err := h.service.FreeEnroll(c.Request.Context(), caller.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to enroll")
		return
	}

	response.OK(c, enrolled, "Enrolled successfully")
}

// PaidEnrollment starts a checkout session for a paid course.
func (h *Handler) PaidEnrollment(c *gin.Context) {
	caller, courseID, ok := h.callerAndCourse(c)
	if !ok {
		return
	}

	checkout, err := h.service.StartPaidEnrollment(c.Request.Context(), caller.ID, caller.Email, courseID)
	if err != nil {
		h.respondError(c, err, "failed to start checkout")
		return
	}

	response.OK(c, checkout, "Checkout session created successfully")
}

// StripeSuccess confirms a paid enrollment after the provider redirect.
func (h *Handler) StripeSuccess(c *gin.Context) {
	caller, courseID, ok := h.callerAndCourse(c)
	if !ok {
		return
	}

	enrolled, err := h.service.ConfirmPaidEnrollment(c.Request.Context(), caller.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to confirm payment")
		return
	}

	response.OK(c, enrolled, "Payment confirmed successfully")
}

// CheckEnrollment reports whether the caller is enrolled.
func (h *Handler) CheckEnrollment(c *gin.Context) {
	caller, courseID, ok := h.callerAndCourse(c)
	if !ok {
		return
	}

	status, err := h.service.CheckEnrollment(c.Request.Context(), caller.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to check enrollment")
		return
	}

	response.OK(c, status, "Enrollment status retrieved successfully")
}

// UserCourses lists the caller's enrolled courses.
func (h *Handler) UserCourses(c *gin.Context) {
	caller, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
		return
	}

	params := pagination.Extract(c, course.SortableFields)
	courses, total, err := h.service.UserCourses(c.Request.Context(), caller.ID, course.FiltersFromQuery(c), params)
	if err != nil {
		h.respondError(c, err, "failed to list courses")
		return
	}

	response.Success(c, http.StatusOK, courses, "Courses retrieved successfully", pagination.MetadataFrom(total, params))
}

// UserSingleCourse returns the full course to an enrolled caller.
func (h *Handler) UserSingleCourse(c *gin.Context) {
	caller, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
		return
	}

	access, err := h.service.UserSingleCourse(c.Request.Context(), caller.ID, c.Param("slug"))
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	response.OK(c, access, "Course retrieved successfully")
}

func (h *Handler) callerAndCourse(c *gin.Context) (*middleware.User, uuid.UUID, bool) {
	caller, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
		return nil, uuid.Nil, false
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Validation Error",
			[]apperrors.FieldError{{Path: "courseId", Message: "courseId must be a valid id"}}, err)
		return nil, uuid.Nil, false
	}
	return caller, courseID, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, course.ErrSlugRequired):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Slug is required", err)
	case errors.Is(err, user.ErrUserNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, ErrCoursePaid):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "This course is paid", err)
	case errors.Is(err, ErrCourseFree):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "This course is free", err)
	case errors.Is(err, ErrInstructorNotConnected):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Instructor Stripe account not connected", err)
	case errors.Is(err, ErrSessionNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Stripe session ID not found or invalid", err)
	case errors.Is(err, ErrNotEnrolled):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "You are not enrolled in this course", err)
	case errors.Is(err, payments.ErrNotConfigured):
		response.ErrorWithLog(h.logger, c, http.StatusServiceUnavailable, "Payment provider not configured", err)
	case errors.Is(err, ErrProvider):
		response.ErrorWithLog(h.logger, c, http.StatusBadGateway, "Payment provider error", err)
	default:
		if _, ok := apperrors.As(err); ok {
			response.AppError(h.logger, c, err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
