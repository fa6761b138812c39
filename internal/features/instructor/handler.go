package instructor

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/authz"
	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// Handler exposes instructor onboarding and reporting.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an instructor handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type studentCountRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
}

// MakeInstructor returns the provider onboarding URL.
func (h *Handler) MakeInstructor(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	link, err := h.service.MakeInstructor(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err, "failed to start onboarding")
		return
	}

	response.OK(c, link, "Account link created successfully")
}

// GetAccountStatus completes onboarding once the provider allows charges.
func (h *Handler) GetAccountStatus(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	usr, err := h.service.GetAccountStatus(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err, "failed to check account status")
		return
	}

	response.OK(c, usr, "Account status updated successfully")
}

// Balance returns the caller's payout balance.
func (h *Handler) Balance(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err, "failed to load balance")
		return
	}

	response.OK(c, balance, "Balance retrieved successfully")
}

// PayoutSettings returns the provider dashboard link.
func (h *Handler) PayoutSettings(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	link, err := h.service.PayoutSettings(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err, "failed to load payout settings")
		return
	}

	response.OK(c, link, "Payout settings link created successfully")
}

// StudentCount lists the students of one of the caller's courses.
func (h *Handler) StudentCount(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req studentCountRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	students, err := h.service.StudentCount(c.Request.Context(), caller.Actor(), uuid.MustParse(req.CourseID))
	if err != nil {
		h.respondError(c, err, "failed to count students")
		return
	}

	response.OK(c, students, "Students retrieved successfully")
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
	case errors.Is(err, user.ErrUserNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "User not found", err)
	case errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrChargesDisabled):
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, ErrAccountNotConnected):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "Stripe account not connected", err)
	case errors.Is(err, ErrSellerNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "Stripe seller account not found", err)
	case errors.Is(err, authz.ErrUnauthenticated):
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", err)
	case errors.Is(err, authz.ErrNotInstructor):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "User is not authorized", err)
	case errors.Is(err, authz.ErrForbidden):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "You are not the owner of this course", err)
	case errors.Is(err, payments.ErrNotConfigured):
		response.ErrorWithLog(h.logger, c, http.StatusServiceUnavailable, "Payment provider not configured", err)
	case errors.Is(err, ErrProvider):
		response.ErrorWithLog(h.logger, c, http.StatusBadGateway, "Payment provider error", err)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
