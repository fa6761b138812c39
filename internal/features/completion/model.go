package completion

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Completion stores the lessons a user finished in one course.
type Completion struct {
	types.BaseModel
	UserID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_completions_user_course" json:"userId"`
	CourseID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_completions_user_course;index" json:"courseId"`
	Lessons  pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"lessons"`
}

// TableName specifies the table name for Completion.
func (Completion) TableName() string {
	return "completions"
}
