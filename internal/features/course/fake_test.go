package course

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
)

type fakeStore struct {
	mu           sync.Mutex
	courses      map[uuid.UUID]*Course
	ratings      map[uuid.UUID]Rating
	reviews      map[uuid.UUID][]ReviewView
	listCalls    int
	instructorNm map[uuid.UUID]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:      map[uuid.UUID]*Course{},
		ratings:      map[uuid.UUID]Rating{},
		reviews:      map[uuid.UUID][]ReviewView{},
		instructorNm: map[uuid.UUID]string{},
	}
}

func (f *fakeStore) clone(c *Course) *Course {
	out := *c
	out.Lessons = append([]Lesson(nil), c.Lessons...)
	out.Instructor = &Instructor{ID: c.InstructorID, Name: f.instructorNm[c.InstructorID]}
	return &out
}

func (f *fakeStore) Create(_ context.Context, course *Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.courses {
		if existing.Slug == course.Slug {
			return ErrSlugTaken
		}
	}
	course.ID = uuid.New()
	course.CreatedAt = time.Now()
	f.courses[course.ID] = f.clone(course)
	return nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return f.clone(course), nil
}

func (f *fakeStore) GetBySlug(_ context.Context, slug string) (*Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, course := range f.courses {
		if course.Slug == slug {
			return f.clone(course), nil
		}
	}
	return nil, ErrCourseNotFound
}

func (f *fakeStore) SlugTaken(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, course := range f.courses {
		if course.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Update(_ context.Context, course *Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.courses[course.ID]
	if !ok {
		return ErrCourseNotFound
	}
	lessons := existing.Lessons
	updated := f.clone(course)
	updated.Lessons = lessons
	f.courses[course.ID] = updated
	return nil
}

func (f *fakeStore) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return ErrCourseNotFound
	}
	course.Published = published
	return nil
}

func (f *fakeStore) AddLesson(_ context.Context, courseID uuid.UUID, lesson *Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	lesson.ID = uuid.New()
	lesson.CourseID = courseID
	lesson.Position = len(course.Lessons) + 1
	course.Lessons = append(course.Lessons, *lesson)
	return nil
}

func (f *fakeStore) UpdateLesson(_ context.Context, courseID uuid.UUID, lesson *Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	for i := range course.Lessons {
		if course.Lessons[i].ID == lesson.ID {
			position := course.Lessons[i].Position
			course.Lessons[i] = *lesson
			course.Lessons[i].CourseID = courseID
			course.Lessons[i].Position = position
			return nil
		}
	}
	return ErrLessonNotFound
}

func (f *fakeStore) RemoveLesson(_ context.Context, courseID, lessonID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	for i := range course.Lessons {
		if course.Lessons[i].ID == lessonID {
			course.Lessons = append(course.Lessons[:i], course.Lessons[i+1:]...)
			return nil
		}
	}
	return ErrLessonNotFound
}

func (f *fakeStore) filter(keep func(*Course) bool, filters Filters, params pagination.Params) ([]Course, int64) {
	var out []Course
	for _, course := range f.courses {
		if !keep(course) {
			continue
		}
		term := strings.ToLower(filters.SearchTerm)
		if term != "" && !strings.Contains(strings.ToLower(course.Name+" "+course.Description+" "+course.Category), term) {
			continue
		}
		if filters.Category != "" && course.Category != filters.Category {
			continue
		}
		if filters.Paid != nil && course.Paid != *filters.Paid {
			continue
		}
		out = append(out, *f.clone(course))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	if params.Skip >= len(out) {
		return []Course{}, total
	}
	end := params.Skip + params.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[params.Skip:end], total
}

func (f *fakeStore) ListByInstructor(_ context.Context, instructorID uuid.UUID, filters Filters, params pagination.Params) ([]Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out, total := f.filter(func(c *Course) bool { return c.InstructorID == instructorID }, filters, params)
	return out, total, nil
}

func (f *fakeStore) ListPublished(_ context.Context, filters Filters, params pagination.Params) ([]Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out, total := f.filter(func(c *Course) bool { return c.Published }, filters, params)
	return out, total, nil
}

func (f *fakeStore) ListEnrolled(_ context.Context, _ uuid.UUID, filters Filters, params pagination.Params) ([]Course, int64, error) {
	return []Course{}, 0, nil
}

func (f *fakeStore) Ratings(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uuid.UUID]Rating{}
	for _, id := range ids {
		if rating, ok := f.ratings[id]; ok {
			out[id] = rating
		}
	}
	return out, nil
}

func (f *fakeStore) Reviews(_ context.Context, courseID uuid.UUID) ([]ReviewView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ReviewView{}, f.reviews[courseID]...), nil
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}
