package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Store is the persistence for enrollments and payment intents.
type Store interface {
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	CreateIntent(ctx context.Context, intent *PaymentIntent) error
	LatestOpenIntent(ctx context.Context, userID, courseID uuid.UUID) (*PaymentIntent, error)
	Capture(ctx context.Context, intent *PaymentIntent, snapshot datatypes.JSON) (bool, error)
	StudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	HasReviewed(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ExpirePending(ctx context.Context, before time.Time) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "check enrollment")
	}
	return count > 0, nil
}

// Enroll inserts the pair once; the boolean reports whether a row was added.
func (s *gormStore) Enroll(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return enroll(s.db.WithContext(ctx), userID, courseID)
}

func enroll(db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Enrollment{UserID: userID, CourseID: courseID})
	if result.Error != nil {
		return false, pkgerrors.Wrap(result.Error, "enroll")
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) CreateIntent(ctx context.Context, intent *PaymentIntent) error {
	if err := s.db.WithContext(ctx).Create(intent).Error; err != nil {
		return pkgerrors.Wrap(err, "create payment intent")
	}
	return nil
}

func (s *gormStore) LatestOpenIntent(ctx context.Context, userID, courseID uuid.UUID) (*PaymentIntent, error) {
	var intent PaymentIntent
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND status IN ?", userID, courseID, openStatuses).
		Order("created_at DESC").
		First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load payment intent")
	}
	return &intent, nil
}

// Capture flips the intent to captured and enrolls the user in one transaction.
// It returns false when another request already captured the intent.
func (s *gormStore) Capture(ctx context.Context, intent *PaymentIntent, snapshot datatypes.JSON) (bool, error) {
	captured := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      types.PaymentStatusCaptured,
			"captured_at": time.Now().UTC(),
		}
		if len(snapshot) > 0 {
			updates["session"] = snapshot
		}

		result := tx.Model(&PaymentIntent{}).
			Where("id = ? AND status IN ?", intent.ID, openStatuses).
			Updates(updates)
		if result.Error != nil {
			return pkgerrors.Wrap(result.Error, "capture payment intent")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if _, err := enroll(tx, intent.UserID, intent.CourseID); err != nil {
			return err
		}
		captured = true
		return nil
	})
	return captured, err
}

func (s *gormStore) StudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&Enrollment{}).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list students")
	}
	return ids, nil
}

func (s *gormStore) HasReviewed(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("reviews").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "check review")
	}
	return count > 0, nil
}

// ExpirePending marks pending intents created before the cutoff as expired.
func (s *gormStore) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&PaymentIntent{}).
		Where("status = ? AND created_at < ?", types.PaymentStatusPending, before).
		Update("status", types.PaymentStatusExpired)
	if result.Error != nil {
		return 0, pkgerrors.Wrap(result.Error, "expire payment intents")
	}
	return result.RowsAffected, nil
}
