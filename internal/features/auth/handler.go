package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	MaxAge int
	Domain string
	Secure bool
}

// Handler processes authentication HTTP requests.
type Handler struct {
	service     *Service
	logger      *slog.Logger
	cookie      CookieConfig
	production  bool
	testAddress string
}

// NewHandler constructs an auth handler instance.
func NewHandler(service *Service, logger *slog.Logger, cookie CookieConfig, production bool, testAddress string) *Handler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &Handler{
		service:     service,
		logger:      logger,
		cookie:      cookie,
		production:  production,
		testAddress: testAddress,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a new user account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	created, err := h.service.Register(c.Request.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err, "registration failed")
		return
	}

	response.Created(c, created, "User created successfully.")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	h.setCookie(c, session.AccessToken, h.cookie.MaxAge)
	response.OK(c, session, "User login successfully.")
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.OK(c, nil, "Logout successfully.")
}

// CurrentUser returns the signed-in user's profile.
func (h *Handler) CurrentUser(c *gin.Context) {
	caller, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
		return
	}

	usr, err := h.service.CurrentUser(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err, "failed to load user")
		return
	}

	response.OK(c, usr, "User found successfully.")
}

type forgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgetPassword emails a reset code.
func (h *Handler) ForgetPassword(c *gin.Context) {
	var req forgetPasswordRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	if err := h.service.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err, "failed to request password reset")
		return
	}

	response.OK(c, nil, "Check your email for the secret code")
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ResetPassword changes the password using an emailed code.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.respondError(c, err, "password reset failed")
		return
	}

	response.OK(c, nil, "Great! Now you can login with your new password")
}

type testEmailRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

// SendTestEmail checks SMTP delivery outside production.
func (h *Handler) SendTestEmail(c *gin.Context) {
	if h.production {
		h.respondError(c, ErrNotAvailable, "")
		return
	}

	var req testEmailRequest
	if c.Request.ContentLength > 0 {
		if err := request.BindJSON(c, &req); err != nil {
			response.AppError(h.logger, c, err)
			return
		}
	}

	to := req.Email
	if to == "" {
		to = h.testAddress
	}
	if to == "" {
		response.Error(c, http.StatusBadRequest, "Validation Error",
			[]apperrors.FieldError{{Path: "email", Message: "email is required"}}, nil)
		return
	}

	if err := h.service.SendTestEmail(c.Request.Context(), to); err != nil {
		h.respondError(c, err, "failed to send test email")
		return
	}

	response.OK(c, nil, "Email send successfully.")
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, user.ErrEmailTaken):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, "User already exist", err)
	case errors.Is(err, ErrInvalidCredentials):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Email and password not match", err)
	case errors.Is(err, user.ErrUserNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, ErrInvalidResetCode):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid reset code", err)
	case errors.Is(err, user.ErrInvalidPassword):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Password must be at least 8 characters long", err)
	case errors.Is(err, ErrEmailDelivery):
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to send email", err)
	case errors.Is(err, ErrNotAvailable):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Not found", err)
	default:
		if _, ok := apperrors.As(err); ok {
			response.AppError(h.logger, c, err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
