package instructor

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"

	"github.com/mo-amir99/course-marketplace-go/internal/authz"
	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
)

// StudentLister returns the users enrolled in a course. enrollment.Store satisfies it.
type StudentLister interface {
	StudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

// Students is the enrolled audience of one course.
type Students struct {
	Count    int            `json:"count"`
	Students []user.Profile `json:"students"`
}

// Service handles payout onboarding and instructor reporting.
type Service struct {
	users       user.Store
	courses     course.Store
	enrollments StudentLister
	provider    payments.Provider
	redirectURL string
	logger      *slog.Logger
}

// NewService creates an instructor service. provider may be nil when payments are not configured.
func NewService(users user.Store, courses course.Store, enrollments StudentLister, provider payments.Provider, redirectURL string, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		provider:    provider,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// MakeInstructor returns the onboarding link for the user's payout account, creating the account first if needed.
func (s *Service) MakeInstructor(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.provider == nil {
		return "", payments.ErrNotConfigured
	}

	usr, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	accountID := ""
	if usr.StripeAccountID != nil {
		accountID = *usr.StripeAccountID
	}
	if accountID == "" {
		account, err := s.provider.CreateAccount(ctx, usr.Email)
		if err != nil {
			return "", pkgerrors.Wrap(ErrProvider, err.Error())
		}
		if err := s.users.SetStripeAccount(ctx, usr.ID, account.ID); err != nil {
			return "", err
		}
		accountID = account.ID
		s.logger.Info("payout account created",
			slog.String("user_id", usr.ID.String()),
			slog.String("account_id", accountID),
		)
	}

	link, err := s.provider.CreateAccountLink(ctx, accountID, s.redirectURL, s.redirectURL)
	if err != nil {
		return "", pkgerrors.Wrap(ErrProvider, err.Error())
	}
	return withPrefilledEmail(link, usr.Email)
}

// GetAccountStatus promotes the user to Instructor once the provider reports charges enabled.
func (s *Service) GetAccountStatus(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	if s.provider == nil {
		return nil, payments.ErrNotConfigured
	}

	usr, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.StripeAccountID == nil || *usr.StripeAccountID == "" {
		return nil, ErrAccountNotConnected
	}

	account, err := s.provider.GetAccount(ctx, *usr.StripeAccountID)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrProvider, err.Error())
	}
	if !account.ChargesEnabled {
		return nil, ErrChargesDisabled
	}

	if err := s.users.PromoteToInstructor(ctx, usr.ID, datatypes.JSON(account.Raw)); err != nil {
		return nil, err
	}
	s.logger.Info("user promoted to instructor", slog.String("user_id", usr.ID.String()))

	return s.users.Get(ctx, usr.ID)
}

// Balance returns the connected account balance.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (*payments.Balance, error) {
	if s.provider == nil {
		return nil, payments.ErrNotConfigured
	}

	usr, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.StripeAccountID == nil || *usr.StripeAccountID == "" {
		return nil, ErrAccountNotConnected
	}

	balance, err := s.provider.GetBalance(ctx, *usr.StripeAccountID)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrProvider, err.Error())
	}
	return balance, nil
}

// PayoutSettings returns a provider dashboard login link for a confirmed seller.
func (s *Service) PayoutSettings(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.provider == nil {
		return "", payments.ErrNotConfigured
	}

	usr, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(usr.StripeSeller) == 0 || usr.StripeAccountID == nil || *usr.StripeAccountID == "" {
		return "", ErrSellerNotFound
	}

	link, err := s.provider.CreateLoginLink(ctx, *usr.StripeAccountID)
	if err != nil {
		return "", pkgerrors.Wrap(ErrProvider, err.Error())
	}
	return link, nil
}

// StudentCount lists the students of a course owned by actor.
func (s *Service) StudentCount(ctx context.Context, actor authz.Actor, courseID uuid.UUID) (*Students, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionViewStudents, authz.Course(c.InstructorID)); err != nil {
		return nil, err
	}

	ids, err := s.enrollments.StudentIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.users.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &Students{Count: len(profiles), Students: profiles}, nil
}

func withPrefilledEmail(link, email string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", pkgerrors.Wrap(ErrProvider, "invalid account link")
	}
	query := u.Query()
	query.Set("stripe_user[email]", email)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
