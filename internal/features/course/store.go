package course

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
)

// Store is the course persistence used by the course, enrollment, completion and review services.
type Store interface {
	Create(ctx context.Context, course *Course) error
	Get(ctx context.Context, id uuid.UUID) (*Course, error)
	GetBySlug(ctx context.Context, slug string) (*Course, error)
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, course *Course) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	AddLesson(ctx context.Context, courseID uuid.UUID, lesson *Lesson) error
	UpdateLesson(ctx context.Context, courseID uuid.UUID, lesson *Lesson) error
	RemoveLesson(ctx context.Context, courseID, lessonID uuid.UUID) error
	ListByInstructor(ctx context.Context, instructorID uuid.UUID, filters Filters, params pagination.Params) ([]Course, int64, error)
	ListPublished(ctx context.Context, filters Filters, params pagination.Params) ([]Course, int64, error)
	ListEnrolled(ctx context.Context, userID uuid.UUID, filters Filters, params pagination.Params) ([]Course, int64, error)
	Ratings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Rating, error)
	Reviews(ctx context.Context, courseID uuid.UUID) ([]ReviewView, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func withInstructor(db *gorm.DB) *gorm.DB {
	return db.Preload("Instructor", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "stripe_account_id")
	})
}

func withLessons(db *gorm.DB) *gorm.DB {
	return db.Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, created_at ASC")
	})
}

func (s *gormStore) Create(ctx context.Context, course *Course) error {
	if err := s.db.WithContext(ctx).Omit("Instructor", "Lessons").Create(course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return pkgerrors.Wrap(err, "create course")
	}
	return nil
}

func (s *gormStore) first(ctx context.Context, query string, arg interface{}) (*Course, error) {
	var course Course
	err := withLessons(withInstructor(s.db.WithContext(ctx))).First(&course, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get course")
	}
	return &course, nil
}

func (s *gormStore) Get(ctx context.Context, id uuid.UUID) (*Course, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *gormStore) GetBySlug(ctx context.Context, slug string) (*Course, error) {
	return s.first(ctx, "slug = ?", slug)
}

func (s *gormStore) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := s.db.WithContext(ctx).Model(&Course{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, pkgerrors.Wrap(err, "check slug")
	}
	return count > 0, nil
}

func (s *gormStore) Update(ctx context.Context, course *Course) error {
	result := s.db.WithContext(ctx).Model(&Course{}).
		Where("id = ?", course.ID).
		Select("name", "slug", "description", "price", "image", "category", "paid", "published", "updated_at").
		Updates(course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return pkgerrors.Wrap(result.Error, "update course")
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (s *gormStore) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	result := s.db.WithContext(ctx).Model(&Course{}).Where("id = ?", id).Update("published", published)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "publish course")
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (s *gormStore) AddLesson(ctx context.Context, courseID uuid.UUID, lesson *Lesson) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&Lesson{}).
			Where("course_id = ?", courseID).
			Select("COALESCE(MAX(position), 0) + 1").
			Scan(&next).Error; err != nil {
			return pkgerrors.Wrap(err, "next lesson position")
		}

		lesson.CourseID = courseID
		lesson.Position = next
		if err := tx.Create(lesson).Error; err != nil {
			return pkgerrors.Wrap(err, "add lesson")
		}
		return nil
	})
}

func (s *gormStore) UpdateLesson(ctx context.Context, courseID uuid.UUID, lesson *Lesson) error {
	result := s.db.WithContext(ctx).Model(&Lesson{}).
		Where("id = ? AND course_id = ?", lesson.ID, courseID).
		Select("title", "slug", "content", "video", "free_preview", "updated_at").
		Updates(lesson)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "update lesson")
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (s *gormStore) RemoveLesson(ctx context.Context, courseID, lessonID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND course_id = ?", lessonID, courseID).Delete(&Lesson{})
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "remove lesson")
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (s *gormStore) ListByInstructor(ctx context.Context, instructorID uuid.UUID, filters Filters, params pagination.Params) ([]Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&Course{}).Where("instructor_id = ?", instructorID)
	return s.list(query, filters, params, true)
}

func (s *gormStore) ListPublished(ctx context.Context, filters Filters, params pagination.Params) ([]Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&Course{}).Where("published = ?", true)
	return s.list(query, filters, params, false)
}

func (s *gormStore) ListEnrolled(ctx context.Context, userID uuid.UUID, filters Filters, params pagination.Params) ([]Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&Course{}).
		Where("id IN (SELECT course_id FROM enrollments WHERE user_id = ?)", userID)
	return s.list(query, filters, params, false)
}

func (s *gormStore) list(query *gorm.DB, filters Filters, params pagination.Params, lessons bool) ([]Course, int64, error) {
	if term := strings.TrimSpace(filters.SearchTerm); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Paid != nil {
		query = query.Where("paid = ?", *filters.Paid)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count courses")
	}

	find := withInstructor(query)
	if lessons {
		find = withLessons(find)
	}

	var courses []Course
	if err := find.Order(params.OrderClause(SortableFields)).
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list courses")
	}
	return courses, total, nil
}

func (s *gormStore) Ratings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Rating, error) {
	ratings := make(map[uuid.UUID]Rating, len(ids))
	if len(ids) == 0 {
		return ratings, nil
	}

	var rows []Rating
	err := s.db.WithContext(ctx).Table("reviews").
		Select("course_id, AVG(rating)::float8 AS average_rating, COUNT(*) AS number_of_ratings").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "aggregate ratings")
	}

	for _, row := range rows {
		ratings[row.CourseID] = row
	}
	return ratings, nil
}

type reviewRow struct {
	ID          uuid.UUID
	Rating      int
	Comment     string
	CreatedAt   time.Time
	UserID      uuid.UUID
	UserName    string
	UserPicture string
}

func (s *gormStore) Reviews(ctx context.Context, courseID uuid.UUID) ([]ReviewView, error) {
	var rows []reviewRow
	err := s.db.WithContext(ctx).Table("reviews").
		Select("reviews.id, reviews.rating, reviews.comment, reviews.created_at, users.id AS user_id, users.name AS user_name, users.picture AS user_picture").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.course_id = ?", courseID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list course reviews")
	}

	views := make([]ReviewView, len(rows))
	for i, row := range rows {
		views[i] = ReviewView{
			ID:        row.ID,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
			User:      ReviewAuthor{ID: row.UserID, Name: row.UserName, Picture: row.UserPicture},
		}
	}
	return views, nil
}
