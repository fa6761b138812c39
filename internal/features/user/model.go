package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// User represents a marketplace account.
type User struct {
	types.BaseModel

	Name              string         `gorm:"type:varchar(100);not null" json:"name"`
	Email             string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password          string         `gorm:"type:varchar(255);not null" json:"-"`
	Picture           string         `gorm:"type:varchar(500);not null;default:'avatar.png'" json:"picture"`
	Roles             types.RoleSet  `gorm:"type:text[];not null;default:'{Subscriber}'" json:"roles"`
	StripeAccountID   *string        `gorm:"type:varchar(255);column:stripe_account_id" json:"stripeAccountId,omitempty"`
	StripeSeller      datatypes.JSON `gorm:"type:jsonb;column:stripe_seller" json:"stripeSeller,omitempty"`
	PasswordResetCode *string        `gorm:"type:varchar(32);column:password_reset_code" json:"-"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// Profile is the public part of a user shown next to courses and reviews.
type Profile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Picture string    `json:"picture,omitempty"`
}

// CreateInput carries data for creating a new user.
type CreateInput struct {
	Name       string
	Email      string
	Password   string
	Roles      types.RoleSet
	BcryptCost int
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes password with cost, falling back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrInvalidPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", pkgerrors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

// ComparePassword checks if the provided password matches the user's hashed password.
func (u *User) ComparePassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Picture: u.Picture}
}

// Get retrieves a user by ID.
func Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (*User, error) {
	var usr User
	if err := db.WithContext(ctx).First(&usr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "get user")
	}
	return &usr, nil
}

// GetByEmail retrieves a user by case-insensitive email.
func GetByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error) {
	var usr User
	if err := db.WithContext(ctx).First(&usr, "email = ?", NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "get user by email")
	}
	return &usr, nil
}

// Create inserts a new user with a hashed password.
func Create(ctx context.Context, db *gorm.DB, input CreateInput) (*User, error) {
	hashed, err := HashPassword(input.Password, input.BcryptCost)
	if err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = types.NewRoleSet(types.RoleSubscriber)
	}

	usr := &User{
		Name:     strings.TrimSpace(input.Name),
		Email:    NormalizeEmail(input.Email),
		Password: hashed,
		Picture:  DefaultPicture,
		Roles:    roles,
	}

	if err := db.WithContext(ctx).Create(usr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, pkgerrors.Wrap(err, "create user")
	}
	return usr, nil
}

// SetResetCode stores a password reset code.
func SetResetCode(ctx context.Context, db *gorm.DB, id uuid.UUID, code string) error {
	return updateColumns(ctx, db, id, map[string]interface{}{"password_reset_code": code})
}

// SetPassword replaces the password hash and clears any reset code.
func SetPassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string) error {
	return updateColumns(ctx, db, id, map[string]interface{}{
		"password":            hash,
		"password_reset_code": nil,
	})
}

// SetStripeAccount records the payout account id.
func SetStripeAccount(ctx context.Context, db *gorm.DB, id uuid.UUID, accountID string) error {
	return updateColumns(ctx, db, id, map[string]interface{}{"stripe_account_id": accountID})
}

// PromoteToInstructor stores the seller snapshot and adds the Instructor role once.
func PromoteToInstructor(ctx context.Context, db *gorm.DB, id uuid.UUID, seller datatypes.JSON) error {
	return updateColumns(ctx, db, id, map[string]interface{}{
		"stripe_seller": seller,
		"roles": gorm.Expr(
			"CASE WHEN ? = ANY(roles) THEN roles ELSE array_append(roles, ?) END",
			string(types.RoleInstructor), string(types.RoleInstructor),
		),
	})
}

// Profiles loads public profiles for ids.
func Profiles(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]Profile, error) {
	profiles := make([]Profile, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}
	err := db.WithContext(ctx).Model(&User{}).
		Select("id", "name", "email", "picture").
		Where("id IN ?", ids).
		Order("name ASC").
		Scan(&profiles).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load user profiles")
	}
	return profiles, nil
}

func updateColumns(ctx context.Context, db *gorm.DB, id uuid.UUID, columns map[string]interface{}) error {
	result := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
