package course

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/authz"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// catalogMaxAge is the browser cache lifetime of catalog pages, in seconds.
const catalogMaxAge = 60

// Handler processes course HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a course handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type courseRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=200"`
	Slug        string      `json:"slug" binding:"required,min=1,max=200"`
	Description string      `json:"description" binding:"required,min=20"`
	Image       string      `json:"image" binding:"required,imageurl"`
	Category    string      `json:"category" binding:"required,min=1,max=100"`
	Paid        *bool       `json:"paid" binding:"required"`
	Published   bool        `json:"published"`
	Price       types.Money `json:"price"`
}

func (r courseRequest) input() Input {
	return Input{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Image:       r.Image,
		Category:    r.Category,
		Price:       r.Price,
		Paid:        *r.Paid,
		Published:   r.Published,
	}
}

// Create adds a new course for the signed-in instructor.
func (h *Handler) Create(c *gin.Context) {
	var req courseRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.ActorFromContext(c), req.input())
	if err != nil {
		h.respondError(c, err, "failed to create course")
		return
	}

	response.Created(c, created, "Course created successfully")
}

type updateCourseRequest struct {
	ID string `json:"id" binding:"required,uuid"`
	courseRequest
}

// Update edits a course owned by the signed-in instructor.
func (h *Handler) Update(c *gin.Context) {
	var req updateCourseRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.ActorFromContext(c), uuid.MustParse(req.ID), req.input())
	if err != nil {
		h.respondError(c, err, "failed to update course")
		return
	}

	response.OK(c, updated, "Course updated successfully")
}

type publishRequest struct {
	CourseID  string `json:"courseId" binding:"required,uuid"`
	Published *bool  `json:"published" binding:"required"`
}

// PublishOrUnpublish toggles catalog visibility.
func (h *Handler) PublishOrUnpublish(c *gin.Context) {
	var req publishRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	updated, err := h.service.SetPublished(c.Request.Context(), middleware.ActorFromContext(c), uuid.MustParse(req.CourseID), *req.Published)
	if err != nil {
		h.respondError(c, err, "failed to publish course")
		return
	}

	message := "Course unpublished successfully"
	if updated.Published {
		message = "Course published successfully"
	}
	response.OK(c, updated, message)
}

type lessonRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Content     string `json:"content" binding:"required,min=10"`
	Video       string `json:"video" binding:"required,url"`
	FreePreview bool   `json:"free_preview"`
}

func (r lessonRequest) input() LessonInput {
	return LessonInput{Title: r.Title, Content: r.Content, Video: r.Video, FreePreview: r.FreePreview}
}

// AddLesson appends a lesson to the course named by :slug.
func (h *Handler) AddLesson(c *gin.Context) {
	var req lessonRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	updated, err := h.service.AddLesson(c.Request.Context(), middleware.ActorFromContext(c), c.Param("slug"), req.input())
	if err != nil {
		h.respondError(c, err, "failed to add lesson")
		return
	}

	response.Created(c, updated, "Lesson added successfully")
}

type updateLessonRequest struct {
	ID string `json:"id" binding:"required,uuid"`
	lessonRequest
}

// UpdateLesson edits a lesson of the course named by :slug.
func (h *Handler) UpdateLesson(c *gin.Context) {
	var req updateLessonRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	lessons, err := h.service.UpdateLesson(c.Request.Context(), middleware.ActorFromContext(c), c.Param("slug"), uuid.MustParse(req.ID), req.input())
	if err != nil {
		h.respondError(c, err, "failed to update lesson")
		return
	}

	response.OK(c, lessons, "Lesson updated successfully")
}

// RemoveLesson deletes a lesson of the course named by :slug.
func (h *Handler) RemoveLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Validation Error",
			[]apperrors.FieldError{{Path: "lessonId", Message: "lessonId must be a valid id"}}, err)
		return
	}

	lessons, err := h.service.RemoveLesson(c.Request.Context(), middleware.ActorFromContext(c), c.Param("slug"), lessonID)
	if err != nil {
		h.respondError(c, err, "failed to remove lesson")
		return
	}

	response.OK(c, lessons, "Lesson removed successfully")
}

// InstructorCourses lists the signed-in instructor's courses.
func (h *Handler) InstructorCourses(c *gin.Context) {
	params := pagination.Extract(c, SortableFields)

	courses, total, err := h.service.InstructorCourses(c.Request.Context(), middleware.ActorFromContext(c), FiltersFromQuery(c), params)
	if err != nil {
		h.respondError(c, err, "failed to list courses")
		return
	}

	response.Success(c, http.StatusOK, courses, "Courses retrieved successfully", pagination.MetadataFrom(total, params))
}

// CoursesForAll lists published courses with ratings.
func (h *Handler) CoursesForAll(c *gin.Context) {
	params := pagination.Extract(c, SortableFields)

	page, err := h.service.Catalog(c.Request.Context(), FiltersFromQuery(c), params)
	if err != nil {
		h.respondError(c, err, "failed to list courses")
		return
	}

	response.SuccessWithCache(c, http.StatusOK, page.Items, "Courses retrieved successfully",
		pagination.MetadataFrom(page.Total, params), catalogMaxAge)
}

// SingleCourse returns the public course page.
func (h *Handler) SingleCourse(c *gin.Context) {
	detail, err := h.service.Single(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	response.OK(c, detail, "Course retrieved successfully")
}

// FiltersFromQuery reads searchTerm, category and paid from the query string.
func FiltersFromQuery(c *gin.Context) Filters {
	filters := Filters{
		SearchTerm: strings.TrimSpace(c.Query("searchTerm")),
		Category:   strings.TrimSpace(c.Query("category")),
	}
	if raw := c.Query("paid"); raw != "" {
		if paid, err := strconv.ParseBool(raw); err == nil {
			filters.Paid = &paid
		}
	}
	return filters
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrLessonNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Lesson not found", err)
	case errors.Is(err, ErrSlugRequired):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Slug is required", err)
	case errors.Is(err, ErrSlugTaken):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "Slug is taken", err)
	case errors.Is(err, authz.ErrUnauthenticated):
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", err)
	case errors.Is(err, authz.ErrNotInstructor):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "User is not authorized", err)
	case errors.Is(err, authz.ErrForbidden):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "You are not the owner of this course", err)
	default:
		if _, ok := apperrors.As(err); ok {
			response.AppError(h.logger, c, err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
