package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/mo-amir99/course-marketplace-go/internal/authz"
	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/cache"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

const catalogVersionKey = "courses:catalog:version"

// Input carries the editable course fields.
type Input struct {
	Name        string
	Slug        string
	Description string
	Image       string
	Category    string
	Price       types.Money
	Paid        bool
	Published   bool
}

// LessonInput carries the editable lesson fields.
type LessonInput struct {
	Title       string
	Content     string
	Video       string
	FreePreview bool
}

// Page is one page of catalog results.
type Page struct {
	Items []Summary `json:"items"`
	Total int64     `json:"total"`
}

// Service implements course authoring and the public catalog.
type Service struct {
	store  Store
	cache  cache.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService wires the course service. cacheClient may be nil to disable catalog caching.
func NewService(store Store, cacheClient cache.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cacheClient, ttl: ttl, logger: logger}
}

// Store exposes the underlying persistence to sibling services.
func (s *Service) Store() Store {
	return s.store
}

// ValidatePricing enforces that paid courses cost something and free ones cost nothing.
func ValidatePricing(paid bool, price types.Money) error {
	message := price.Problem()
	switch {
	case message != "":
	case paid && !price.IsPositive():
		message = "Price must be greater than 0 if the course is paid"
	case !paid && !price.IsZero():
		message = "Price must be 0.00 if the course is not paid"
	}
	if message == "" {
		return nil
	}
	return apperrors.Validation("Validation Error", []apperrors.FieldError{{Path: "price", Message: message}}, nil)
}

// Create adds a course owned by actor.
func (s *Service) Create(ctx context.Context, actor authz.Actor, in Input) (*Course, error) {
	if err := authz.Authorize(actor, authz.ActionCreateCourse, authz.Resource{}); err != nil {
		return nil, err
	}
	if err := ValidatePricing(in.Paid, in.Price); err != nil {
		return nil, err
	}

	courseSlug := slug.Make(in.Slug)
	if courseSlug == "" {
		return nil, ErrSlugRequired
	}

	taken, err := s.store.SlugTaken(ctx, courseSlug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	course := &Course{
		Name:         strings.TrimSpace(in.Name),
		Slug:         courseSlug,
		Description:  in.Description,
		Price:        in.Price,
		Image:        strings.TrimSpace(in.Image),
		Category:     strings.TrimSpace(in.Category),
		Paid:         in.Paid,
		Published:    in.Published,
		InstructorID: actor.ID,
	}
	if err := s.store.Create(ctx, course); err != nil {
		return nil, err
	}

	s.InvalidateCatalog(ctx)
	return course, nil
}

// Update replaces the editable fields of a course owned by actor.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, in Input) (*Course, error) {
	course, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdateCourse, authz.Course(course.InstructorID)); err != nil {
		return nil, err
	}
	if err := ValidatePricing(in.Paid, in.Price); err != nil {
		return nil, err
	}

	courseSlug := slug.Make(in.Slug)
	if courseSlug == "" {
		return nil, ErrSlugRequired
	}
	if courseSlug != course.Slug {
		taken, err := s.store.SlugTaken(ctx, courseSlug, course.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
	}

	course.Name = strings.TrimSpace(in.Name)
	course.Slug = courseSlug
	course.Description = in.Description
	course.Price = in.Price
	course.Image = strings.TrimSpace(in.Image)
	course.Category = strings.TrimSpace(in.Category)
	course.Paid = in.Paid
	course.Published = in.Published

	if err := s.store.Update(ctx, course); err != nil {
		return nil, err
	}

	s.InvalidateCatalog(ctx)
	return s.store.Get(ctx, id)
}

// SetPublished publishes or unpublishes a course owned by actor.
func (s *Service) SetPublished(ctx context.Context, actor authz.Actor, id uuid.UUID, published bool) (*Course, error) {
	course, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionPublishCourse, authz.Course(course.InstructorID)); err != nil {
		return nil, err
	}

	if err := s.store.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}

	s.InvalidateCatalog(ctx)
	return s.store.Get(ctx, id)
}

// AddLesson appends a lesson to the course identified by courseSlug.
func (s *Service) AddLesson(ctx context.Context, actor authz.Actor, courseSlug string, in LessonInput) (*Course, error) {
	course, err := s.ownedBySlug(ctx, actor, authz.ActionAddLesson, courseSlug)
	if err != nil {
		return nil, err
	}

	lesson := &Lesson{
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug.Make(in.Title),
		Content:     in.Content,
		Video:       strings.TrimSpace(in.Video),
		FreePreview: in.FreePreview,
	}
	if err := s.store.AddLesson(ctx, course.ID, lesson); err != nil {
		return nil, err
	}

	return s.store.Get(ctx, course.ID)
}

// UpdateLesson edits one lesson and returns the course's lessons.
func (s *Service) UpdateLesson(ctx context.Context, actor authz.Actor, courseSlug string, lessonID uuid.UUID, in LessonInput) ([]Lesson, error) {
	course, err := s.ownedBySlug(ctx, actor, authz.ActionUpdateLesson, courseSlug)
	if err != nil {
		return nil, err
	}
	if !course.HasLesson(lessonID) {
		return nil, ErrLessonNotFound
	}

	lesson := &Lesson{
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug.Make(in.Title),
		Content:     in.Content,
		Video:       strings.TrimSpace(in.Video),
		FreePreview: in.FreePreview,
	}
	lesson.ID = lessonID
	if err := s.store.UpdateLesson(ctx, course.ID, lesson); err != nil {
		return nil, err
	}

	updated, err := s.store.Get(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return updated.Lessons, nil
}

// RemoveLesson deletes one lesson and returns the remaining lessons.
func (s *Service) RemoveLesson(ctx context.Context, actor authz.Actor, courseSlug string, lessonID uuid.UUID) ([]Lesson, error) {
	course, err := s.ownedBySlug(ctx, actor, authz.ActionRemoveLesson, courseSlug)
	if err != nil {
		return nil, err
	}

	if err := s.store.RemoveLesson(ctx, course.ID, lessonID); err != nil {
		return nil, err
	}

	updated, err := s.store.Get(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return updated.Lessons, nil
}

// InstructorCourses lists the actor's own courses.
func (s *Service) InstructorCourses(ctx context.Context, actor authz.Actor, filters Filters, params pagination.Params) ([]Course, int64, error) {
	if actor.ID == uuid.Nil {
		return nil, 0, authz.ErrUnauthenticated
	}
	return s.store.ListByInstructor(ctx, actor.ID, filters, params)
}

// Catalog lists published courses with rating aggregates, served from cache when possible.
func (s *Service) Catalog(ctx context.Context, filters Filters, params pagination.Params) (*Page, error) {
	key := s.catalogKey(ctx, filters, params)

	if s.cache != nil {
		var cached Page
		err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	courses, total, err := s.store.ListPublished(ctx, filters, params)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}
	ratings, err := s.store.Ratings(ctx, ids)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: make([]Summary, len(courses)), Total: total}
	for i, course := range courses {
		rating := ratings[course.ID]
		page.Items[i] = Summary{
			Course:          course,
			AverageRating:   rating.AverageRating,
			NumberOfRatings: rating.NumberOfRatings,
		}
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, page, s.ttl); err != nil {
			s.logger.Warn("catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return page, nil
}

// Single returns the public course page with reviews.
func (s *Service) Single(ctx context.Context, courseSlug string) (*Detail, error) {
	if strings.TrimSpace(courseSlug) == "" {
		return nil, ErrSlugRequired
	}

	course, err := s.store.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	reviews, err := s.store.Reviews(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Course: course.PublicView(), Reviews: reviews}, nil
}

func (s *Service) ownedBySlug(ctx context.Context, actor authz.Actor, action authz.Action, courseSlug string) (*Course, error) {
	if strings.TrimSpace(courseSlug) == "" {
		return nil, ErrSlugRequired
	}
	course, err := s.store.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, action, authz.Course(course.InstructorID)); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *Service) catalogKey(ctx context.Context, filters Filters, params pagination.Params) string {
	version := "0"
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, catalogVersionKey); err == nil {
			version = v
		}
	}

	paid := ""
	if filters.Paid != nil {
		paid = strconv.FormatBool(*filters.Paid)
	}

	return fmt.Sprintf("courses:catalog:v%s:%s:%s:%s:%s",
		version, params.CacheKey(), strings.ToLower(strings.TrimSpace(filters.SearchTerm)), filters.Category, paid)
}

// InvalidateCatalog bumps the catalog version so cached pages stop matching.
func (s *Service) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Increment(ctx, catalogVersionKey); err != nil {
		s.logger.Warn("catalog cache invalidation failed", slog.String("error", err.Error()))
	}
}
