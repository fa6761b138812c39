package review

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// Handler exposes course reviews over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a review handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=10,max=500"`
}

// Create reviews the course in the path.
func (h *Handler) Create(c *gin.Context) {
	caller, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Validation Error",
			[]apperrors.FieldError{{Path: "courseId", Message: "courseId must be a valid id"}}, err)
		return
	}

	var req createRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	review, err := h.service.Create(c.Request.Context(), caller.ID, courseID, Input{
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, review, "Review created successfully")
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrNotEnrolled):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "You must be enrolled to review this course", err)
	case errors.Is(err, ErrAlreadyReviewed):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "Already reviewed", err)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to create review", err)
	}
}
