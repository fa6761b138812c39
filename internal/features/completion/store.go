package completion

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store persists completion records.
type Store interface {
	Lessons(ctx context.Context, userID, courseID uuid.UUID) ([]string, error)
	Add(ctx context.Context, userID, courseID uuid.UUID, lessonID string) ([]string, error)
	Remove(ctx context.Context, userID, courseID uuid.UUID, lessonID string) ([]string, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Lessons(ctx context.Context, userID, courseID uuid.UUID) ([]string, error) {
	var record Completion
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load completion")
	}
	return normalize(record.Lessons), nil
}

// Add inserts the record on first use and appends lessonID unless already present.
func (s *gormStore) Add(ctx context.Context, userID, courseID uuid.UUID, lessonID string) ([]string, error) {
	var lessons pq.StringArray
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO completions (id, user_id, course_id, lessons, created_at, updated_at)
		VALUES (?, ?, ?, ARRAY[?]::text[], NOW(), NOW())
		ON CONFLICT (user_id, course_id) DO UPDATE
		SET lessons = CASE
				WHEN ? = ANY(completions.lessons) THEN completions.lessons
				ELSE array_append(completions.lessons, ?)
			END,
			updated_at = NOW()
		RETURNING lessons`,
		uuid.New(), userID, courseID, lessonID, lessonID, lessonID,
	).Row().Scan(&lessons)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "mark lesson completed")
	}
	return normalize(lessons), nil
}

// Remove drops lessonID from the record. An emptied record is kept.
func (s *gormStore) Remove(ctx context.Context, userID, courseID uuid.UUID, lessonID string) ([]string, error) {
	var lessons pq.StringArray
	err := s.db.WithContext(ctx).Raw(`
		UPDATE completions
		SET lessons = array_remove(lessons, ?), updated_at = NOW()
		WHERE user_id = ? AND course_id = ?
		RETURNING lessons`,
		lessonID, userID, courseID,
	).Row().Scan(&lessons)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "mark lesson incompleted")
	}
	return normalize(lessons), nil
}

func normalize(lessons pq.StringArray) []string {
	if lessons == nil {
		return []string{}
	}
	return []string(lessons)
}
