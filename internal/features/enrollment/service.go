package enrollment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/metrics"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Service implements free and paid enrollment and the enrolled-user views.
type Service struct {
	store    Store
	courses  course.Store
	users    user.Store
	provider payments.Provider
	cfg      CheckoutConfig
	logger   *slog.Logger
}

// NewService wires the enrollment service. provider may be nil when payments are not configured.
func NewService(store Store, courses course.Store, users user.Store, provider payments.Provider, cfg CheckoutConfig, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		courses:  courses,
		users:    users,
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// Store exposes enrollment persistence to sibling services.
func (s *Service) Store() Store {
	return s.store
}

// FreeEnroll adds a free course to the user's set.
func (s *Service) FreeEnroll(ctx context.Context, userID, courseID uuid.UUID) (*course.Course, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.Paid {
		return nil, ErrCoursePaid
	}

	added, err := s.store.Enroll(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if added {
		metrics.RecordEnrollment("free")
	}
	return c, nil
}

// StartPaidEnrollment opens a checkout session and records a pending payment intent.
func (s *Service) StartPaidEnrollment(ctx context.Context, userID uuid.UUID, customerEmail string, courseID uuid.UUID) (*Checkout, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.Paid {
		return nil, ErrCourseFree
	}
	if c.Instructor == nil || c.Instructor.StripeAccountID == nil || *c.Instructor.StripeAccountID == "" {
		return nil, ErrInstructorNotConnected
	}
	if s.provider == nil {
		return nil, payments.ErrNotConfigured
	}

	unitAmount, fee := payments.Amounts(c.Price, s.cfg.PlatformFee)
	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		ProductName:    c.Name,
		UnitAmount:     unitAmount,
		Currency:       s.cfg.Currency,
		ApplicationFee: fee,
		Destination:    *c.Instructor.StripeAccountID,
		SuccessURL:     strings.TrimRight(s.cfg.SuccessURL, "/") + "/" + c.ID.String(),
		CancelURL:      s.cfg.CancelURL,
		CustomerEmail:  customerEmail,
		Metadata: map[string]string{
			"courseId": c.ID.String(),
			"userId":   userID.String(),
		},
	})
	metrics.RecordCheckoutSession(err == nil)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrProvider, err.Error())
	}

	intent := &PaymentIntent{
		SessionID:      session.ID,
		UserID:         userID,
		CourseID:       c.ID,
		Amount:         unitAmount,
		ApplicationFee: fee,
		Currency:       s.cfg.Currency,
		Status:         types.PaymentStatusPending,
		Session:        datatypes.JSON(session.Raw),
	}
	if err := s.store.CreateIntent(ctx, intent); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		slog.String("session_id", session.ID),
		slog.String("course_id", c.ID.String()),
		slog.String("user_id", userID.String()),
	)

	return &Checkout{SessionID: session.ID, URL: session.URL}, nil
}

// ConfirmPaidEnrollment checks the latest pending session with the provider and enrolls on payment.
// Already enrolled users get the course back without a provider call.
func (s *Service) ConfirmPaidEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*course.Course, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	enrolled, err := s.store.IsEnrolled(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return c, nil
	}

	intent, err := s.store.LatestOpenIntent(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, payments.ErrNotConfigured
	}

	session, err := s.provider.GetCheckoutSession(ctx, intent.SessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrProvider, err.Error())
	}
	if !session.Paid() {
		metrics.RecordPaymentCapture("unpaid")
		return c, nil
	}

	captured, err := s.store.Capture(ctx, intent, datatypes.JSON(session.Raw))
	if err != nil {
		return nil, err
	}
	if !captured {
		metrics.RecordPaymentCapture("already_captured")
		return c, nil
	}

	metrics.RecordPaymentCapture("captured")
	metrics.RecordEnrollment("paid")
	s.logger.Info("payment captured",
		slog.String("session_id", intent.SessionID),
		slog.String("course_id", c.ID.String()),
		slog.String("user_id", userID.String()),
	)
	return c, nil
}

// CheckEnrollment reports whether the user is enrolled in courseID.
func (s *Service) CheckEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*Status, error) {
	enrolled, err := s.store.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &Status{Status: enrolled}, nil
}

// UserCourses lists the courses the user is enrolled in.
func (s *Service) UserCourses(ctx context.Context, userID uuid.UUID, filters course.Filters, params pagination.Params) ([]course.Course, int64, error) {
	return s.courses.ListEnrolled(ctx, userID, filters, params)
}

// UserSingleCourse returns the full course to an enrolled user.
func (s *Service) UserSingleCourse(ctx context.Context, userID uuid.UUID, courseSlug string) (*CourseAccess, error) {
	if strings.TrimSpace(courseSlug) == "" {
		return nil, course.ErrSlugRequired
	}

	c, err := s.courses.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.store.IsEnrolled(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	reviewed, err := s.store.HasReviewed(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}

	return &CourseAccess{Course: *c, UserAlreadyReviewed: reviewed}, nil
}
