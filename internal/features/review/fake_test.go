package review

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
)

type fakeCourses struct {
	course.Store
	courses map[uuid.UUID]*course.Course
}

func (f *fakeCourses) Get(_ context.Context, id uuid.UUID) (*course.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return c, nil
}

type fakeCatalog struct {
	mu            sync.Mutex
	invalidations int
}

func (f *fakeCatalog) InvalidateCatalog(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}

type enrolledSet map[[2]uuid.UUID]bool

func (e enrolledSet) IsEnrolled(_ context.Context, userID, courseID uuid.UUID) (bool, error) {
	return e[[2]uuid.UUID{userID, courseID}], nil
}

type fakeStore struct {
	mu      sync.Mutex
	reviews []Review
}

func (f *fakeStore) Exists(_ context.Context, userID, courseID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.UserID == userID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, review *Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.UserID == review.UserID && r.CourseID == review.CourseID {
			return ErrAlreadyReviewed
		}
	}
	review.ID = uuid.New()
	f.reviews = append(f.reviews, *review)
	return nil
}
