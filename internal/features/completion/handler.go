package completion

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// Handler exposes completion tracking over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a completion handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type courseRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
}

type lessonRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
	LessonID string `json:"lessonId" binding:"required,uuid"`
}

// ListCompleted returns the caller's completed lessons for a course.
func (h *Handler) ListCompleted(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req courseRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	lessons, err := h.service.ListCompleted(c.Request.Context(), caller.ID, uuid.MustParse(req.CourseID))
	if err != nil {
		h.respondError(c, err, "failed to list completed lessons")
		return
	}

	response.OK(c, lessons, "Completed lessons retrieved successfully")
}

// MarkCompleted records a finished lesson.
func (h *Handler) MarkCompleted(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req lessonRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	lessons, err := h.service.MarkCompleted(c.Request.Context(), caller.ID, uuid.MustParse(req.CourseID), uuid.MustParse(req.LessonID))
	if err != nil {
		h.respondError(c, err, "failed to mark lesson as completed")
		return
	}

	response.OK(c, lessons, "Lesson marked as completed successfully")
}

// MarkIncompleted clears a finished lesson.
func (h *Handler) MarkIncompleted(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req lessonRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	lessons, err := h.service.MarkIncompleted(c.Request.Context(), caller.ID, uuid.MustParse(req.CourseID), uuid.MustParse(req.LessonID))
	if err != nil {
		h.respondError(c, err, "failed to mark lesson as incompleted")
		return
	}

	response.OK(c, lessons, "Lesson marked as incompleted successfully")
}

func (h *Handler) caller(c *gin.Context) (*middleware.User, bool) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
	}
	return usr, ok
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrLessonNotInCourse):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Lesson not found", err)
	default:
		if _, ok := apperrors.As(err); ok {
			response.AppError(h.logger, c, err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
