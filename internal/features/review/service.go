package review

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
)

// EnrollmentChecker reports course membership. enrollment.Store satisfies it.
type EnrollmentChecker interface {
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// CatalogInvalidator drops cached catalog pages. course.Service satisfies it.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// Service creates course reviews.
type Service struct {
	store       Store
	courses     course.Store
	enrollments EnrollmentChecker
	catalog     CatalogInvalidator
	logger      *slog.Logger
}

// NewService creates a review service. catalog may be nil when the catalog is not cached.
func NewService(store Store, courses course.Store, enrollments EnrollmentChecker, catalog CatalogInvalidator, logger *slog.Logger) *Service {
	return &Service{store: store, courses: courses, enrollments: enrollments, catalog: catalog, logger: logger}
}

// Create stores the caller's only review of courseID.
func (s *Service) Create(ctx context.Context, userID, courseID uuid.UUID, input Input) (*Review, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	exists, err := s.store.Exists(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &Review{
		UserID:   userID,
		CourseID: c.ID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := s.store.Create(ctx, review); err != nil {
		return nil, err
	}
	// catalog pages carry rating aggregates
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}

	s.logger.Info("review created",
		slog.String("course_id", c.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("rating", review.Rating),
	)
	return review, nil
}
