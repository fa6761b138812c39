package completion

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
)

// Service tracks per-user lesson completion.
type Service struct {
	store   Store
	courses course.Store
	logger  *slog.Logger
}

// NewService creates a completion service.
func NewService(store Store, courses course.Store, logger *slog.Logger) *Service {
	return &Service{store: store, courses: courses, logger: logger}
}

// ListCompleted returns the completed lesson ids, empty when nothing was recorded.
func (s *Service) ListCompleted(ctx context.Context, userID, courseID uuid.UUID) ([]string, error) {
	return s.store.Lessons(ctx, userID, courseID)
}

// MarkCompleted adds lessonID to the user's completed set for the course.
func (s *Service) MarkCompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) ([]string, error) {
	if err := s.ensureLesson(ctx, courseID, lessonID); err != nil {
		return nil, err
	}
	return s.store.Add(ctx, userID, courseID, lessonID.String())
}

// MarkIncompleted removes lessonID from the completed set.
func (s *Service) MarkIncompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) ([]string, error) {
	if err := s.ensureLesson(ctx, courseID, lessonID); err != nil {
		return nil, err
	}
	return s.store.Remove(ctx, userID, courseID, lessonID.String())
}

func (s *Service) ensureLesson(ctx context.Context, courseID, lessonID uuid.UUID) error {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if !c.HasLesson(lessonID) {
		return ErrLessonNotInCourse
	}
	return nil
}
