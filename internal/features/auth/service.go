package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/internal/utils/jwt"
	"github.com/mo-amir99/course-marketplace-go/pkg/email"
)

const resetCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config holds token and mail settings for the auth service.
type Config struct {
	JWTSecret      string
	TokenExpiry    time.Duration
	BcryptCost     int
	ResetCodeChars int
	FrontendURL    string
}

// RegisterInput carries registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is returned on successful login.
type Session struct {
	User        *user.User `json:"user"`
	AccessToken string     `json:"accessToken"`
}

// Service implements account registration, login and password recovery.
type Service struct {
	users  user.Store
	mailer email.Sender
	cfg    Config
	logger *slog.Logger
}

// NewService wires the auth service.
func NewService(users user.Store, mailer email.Sender, cfg Config, logger *slog.Logger) *Service {
	if cfg.ResetCodeChars <= 0 {
		cfg.ResetCodeChars = 7
	}
	return &Service{users: users, mailer: mailer, cfg: cfg, logger: logger}
}

// Register creates a Subscriber account and sends the welcome email in the background.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	created, err := s.users.Create(ctx, user.CreateInput{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		BcryptCost: s.cfg.BcryptCost,
	})
	if err != nil {
		return nil, err
	}

	go s.sendWelcome(context.WithoutCancel(ctx), created.Email, created.Name)

	return created, nil
}

func (s *Service) sendWelcome(ctx context.Context, to, name string) {
	msg, err := email.WelcomeMessage(to, name)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Warn("failed to send welcome email", slog.String("email", to), slog.String("error", err.Error()))
	}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*Session, error) {
	usr, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if pkgerrors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !usr.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(usr.ID, usr.Roles.Strings(), s.cfg.JWTSecret, s.cfg.TokenExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "issue access token")
	}

	return &Session{User: usr, AccessToken: token}, nil
}

// CurrentUser loads the full profile of the signed-in user.
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.Get(ctx, id)
}

// ForgetPassword stores a fresh reset code and emails it.
func (s *Service) ForgetPassword(ctx context.Context, emailAddr string) error {
	usr, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, err := generateResetCode(s.cfg.ResetCodeChars)
	if err != nil {
		return err
	}

	if err := s.users.SetResetCode(ctx, usr.ID, code); err != nil {
		return err
	}

	msg, err := email.ResetCodeMessage(usr.Email, usr.Name, code, s.cfg.FrontendURL)
	if err != nil {
		return pkgerrors.Wrap(err, "render reset email")
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send reset code", slog.String("email", usr.Email), slog.String("error", err.Error()))
		return pkgerrors.Wrap(ErrEmailDelivery, err.Error())
	}
	return nil
}

// ResetPassword replaces the password when code matches the stored reset code.
func (s *Service) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	usr, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code = strings.TrimSpace(code)
	if usr.PasswordResetCode == nil || code == "" ||
		subtle.ConstantTimeCompare([]byte(*usr.PasswordResetCode), []byte(code)) != 1 {
		return ErrInvalidResetCode
	}

	hash, err := user.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	return s.users.SetPassword(ctx, usr.ID, hash)
}

// SendTestEmail delivers a fixed message to verify SMTP settings.
func (s *Service) SendTestEmail(ctx context.Context, to string) error {
	if err := s.mailer.Send(ctx, email.TestMessage(to)); err != nil {
		return pkgerrors.Wrap(ErrEmailDelivery, err.Error())
	}
	return nil
}

func generateResetCode(length int) (string, error) {
	max := big.NewInt(int64(len(resetCodeAlphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", pkgerrors.Wrap(err, "generate reset code")
		}
		b.WriteByte(resetCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
