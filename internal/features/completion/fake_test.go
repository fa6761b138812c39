package completion

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

type recordKey struct {
	user, course uuid.UUID
}

type fakeStore struct {
	mu      sync.Mutex
	records map[recordKey][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[recordKey][]string{}}
}

func (f *fakeStore) Lessons(_ context.Context, userID, courseID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lessons, ok := f.records[recordKey{userID, courseID}]
	if !ok {
		return []string{}, nil
	}
	return append([]string{}, lessons...), nil
}

func (f *fakeStore) Add(_ context.Context, userID, courseID uuid.UUID, lessonID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey{userID, courseID}
	lessons := f.records[key]
	for _, existing := range lessons {
		if existing == lessonID {
			return append([]string{}, lessons...), nil
		}
	}
	f.records[key] = append(lessons, lessonID)
	return append([]string{}, f.records[key]...), nil
}

func (f *fakeStore) Remove(_ context.Context, userID, courseID uuid.UUID, lessonID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey{userID, courseID}
	lessons, ok := f.records[key]
	if !ok {
		return []string{}, nil
	}
	kept := []string{}
	for _, existing := range lessons {
		if existing != lessonID {
			kept = append(kept, existing)
		}
	}
	f.records[key] = kept
	return append([]string{}, kept...), nil
}

func (f *fakeStore) hasRecord(userID, courseID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[recordKey{userID, courseID}]
	return ok
}
