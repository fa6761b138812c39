package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/internal/authz"
	"github.com/mo-amir99/course-marketplace-go/internal/utils/jwt"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// ErrUserNotFound is returned by a UserLoader when the token subject no longer exists.
var ErrUserNotFound = errors.New("user not found")

// User is the authenticated caller as seen by handlers.
type User struct {
	ID              uuid.UUID     `gorm:"column:id;primaryKey"`
	Name            string        `gorm:"column:name"`
	Email           string        `gorm:"column:email"`
	Roles           types.RoleSet `gorm:"column:roles;type:text[]"`
	StripeAccountID *string       `gorm:"column:stripe_account_id"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Actor converts the user for authorization checks.
func (u *User) Actor() authz.Actor {
	if u == nil {
		return authz.Actor{}
	}
	return authz.Actor{ID: u.ID, Roles: u.Roles}
}

// UserLoader resolves a token subject to a user.
type UserLoader interface {
	LoadUser(ctx context.Context, id uuid.UUID) (*User, error)
}

type gormLoader struct {
	db *gorm.DB
}

// NewGormLoader reads users straight from the users table.
func NewGormLoader(db *gorm.DB) UserLoader {
	return &gormLoader{db: db}
}

func (l *gormLoader) LoadUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var usr User
	err := l.db.WithContext(ctx).
		Select("id", "name", "email", "roles", "stripe_account_id").
		First(&usr, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &usr, nil
}

// Global instance to be initialized once at startup
var global *AuthMiddleware

// AuthMiddleware holds dependencies for authentication middleware
type AuthMiddleware struct {
	loader     UserLoader
	jwtSecret  string
	cookieName string
	logger     *slog.Logger
}

// New creates an auth middleware instance.
func New(loader UserLoader, jwtSecret, cookieName string, logger *slog.Logger) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &AuthMiddleware{
		loader:     loader,
		jwtSecret:  jwtSecret,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Initialize sets up the global middleware instance (call once at startup)
func Initialize(db *gorm.DB, jwtSecret, cookieName string, logger *slog.Logger) *AuthMiddleware {
	global = New(NewGormLoader(db), jwtSecret, cookieName, logger)
	return global
}

// Authenticate validates the session token and loads the user into context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

// AuthorizeRoles passes when the user holds any of roles.
func (m *AuthMiddleware) AuthorizeRoles(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, ok := GetUserFromContext(c)
		if !ok {
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
			c.Abort()
			return
		}

		if !usr.Roles.HasAny(roles...) {
			response.ErrorWithLog(m.logger, c, http.StatusForbidden, "User is not authorized", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoles authenticates and then checks roles. With no roles any signed-in user passes.
func (m *AuthMiddleware) RequireRoles(roles ...types.Role) []gin.HandlerFunc {
	handlers := []gin.HandlerFunc{m.Authenticate()}
	if len(roles) > 0 {
		handlers = append(handlers, m.AuthorizeRoles(roles...))
	}
	return handlers
}

// RequireRoles is the global version of AuthMiddleware.RequireRoles.
func RequireRoles(roles ...types.Role) []gin.HandlerFunc {
	if global == nil {
		panic("middleware not initialized - call middleware.Initialize() first")
	}
	return global.RequireRoles(roles...)
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		return nil, false
	}

	usr, ok := userVal.(*User)
	return usr, ok && usr != nil
}

// SetUser stores an authenticated user on the context.
func SetUser(c *gin.Context, usr *User) {
	c.Set("user", usr)
	c.Set("userId", usr.ID)
}

func (m *AuthMiddleware) tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (*User, bool) {
	if usr, ok := GetUserFromContext(c); ok {
		return usr, true
	}

	token := m.tokenFrom(c)
	if token == "" {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Unauthorized access", nil)
		c.Abort()
		return nil, false
	}

	claims, err := jwt.VerifyToken(token, m.jwtSecret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Token expired", err)
		default:
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Invalid token", err)
		}
		c.Abort()
		return nil, false
	}

	usr, err := m.loader.LoadUser(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "User not found", err)
		default:
			response.ErrorWithLog(m.logger, c, http.StatusInternalServerError, "Internal Server Error", err)
		}
		c.Abort()
		return nil, false
	}

	SetUser(c, usr)
	return usr, true
}

// ActorFromContext returns the authorization actor for the signed-in user, or the zero actor.
func ActorFromContext(c *gin.Context) authz.Actor {
	usr, _ := GetUserFromContext(c)
	return usr.Actor()
}
