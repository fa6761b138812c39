package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is the user persistence used by the auth and instructor services.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, input CreateInput) (*User, error)
	SetResetCode(ctx context.Context, id uuid.UUID, code string) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
	SetStripeAccount(ctx context.Context, id uuid.UUID, accountID string) error
	PromoteToInstructor(ctx context.Context, id uuid.UUID, seller datatypes.JSON) error
	Profiles(ctx context.Context, ids []uuid.UUID) ([]Profile, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return Get(ctx, s.db, id)
}

func (s *gormStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return GetByEmail(ctx, s.db, email)
}

func (s *gormStore) Create(ctx context.Context, input CreateInput) (*User, error) {
	return Create(ctx, s.db, input)
}

func (s *gormStore) SetResetCode(ctx context.Context, id uuid.UUID, code string) error {
	return SetResetCode(ctx, s.db, id, code)
}

func (s *gormStore) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	return SetPassword(ctx, s.db, id, hash)
}

func (s *gormStore) SetStripeAccount(ctx context.Context, id uuid.UUID, accountID string) error {
	return SetStripeAccount(ctx, s.db, id, accountID)
}

func (s *gormStore) PromoteToInstructor(ctx context.Context, id uuid.UUID, seller datatypes.JSON) error {
	return PromoteToInstructor(ctx, s.db, id, seller)
}

func (s *gormStore) Profiles(ctx context.Context, ids []uuid.UUID) ([]Profile, error) {
	return Profiles(ctx, s.db, ids)
}
