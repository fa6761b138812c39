package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store persists reviews.
type Store interface {
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	Create(ctx context.Context, review *Review) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Review{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "check review")
	}
	return count > 0, nil
}

func (s *gormStore) Create(ctx context.Context, review *Review) error {
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyReviewed
		}
		return pkgerrors.Wrap(err, "create review")
	}
	return nil
}
