package enrollment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Enrollment is one member of a user's enrolled-course set.
type Enrollment struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (Enrollment) TableName() string { return "enrollments" }

// PaymentIntent tracks one checkout session from creation to capture.
type PaymentIntent struct {
	types.BaseModel

	SessionID      string              `gorm:"type:varchar(255);not null;uniqueIndex;column:session_id" json:"sessionId"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index:idx_payment_intent_user_course,priority:1" json:"userId"`
	CourseID       uuid.UUID           `gorm:"type:uuid;not null;index:idx_payment_intent_user_course,priority:2" json:"courseId"`
	Amount         int64               `gorm:"not null" json:"amount"`
	ApplicationFee int64               `gorm:"not null;column:application_fee" json:"applicationFee"`
	Currency       string              `gorm:"type:varchar(10);not null" json:"currency"`
	Status         types.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Session        datatypes.JSON      `gorm:"type:jsonb" json:"-"`
	CapturedAt     *time.Time          `gorm:"column:captured_at" json:"capturedAt,omitempty"`
}

// TableName overrides the default table name.
func (PaymentIntent) TableName() string { return "payment_intents" }

// openStatuses are the intent states that may still be captured.
var openStatuses = []types.PaymentStatus{types.PaymentStatusPending, types.PaymentStatusExpired}

// Checkout is returned to the client to continue payment with the provider.
type Checkout struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

// Status answers whether the caller is enrolled.
type Status struct {
	Status bool `json:"status"`
}

// CourseAccess is an enrolled user's view of a course.
type CourseAccess struct {
	course.Course
	UserAlreadyReviewed bool `json:"userAlreadyReviewed"`
}

// CheckoutConfig holds the provider-facing checkout settings.
type CheckoutConfig struct {
	Currency    string
	PlatformFee int64
	SuccessURL  string
	CancelURL   string
}
