package review

import (
	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Review is a single user's rating of a course.
type Review struct {
	types.BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_course" json:"userId"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_course;index" json:"courseId"`
	Rating   int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment  string    `gorm:"type:varchar(500);not null" json:"comment"`
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}

// Input carries a new review.
type Input struct {
	Rating  int
	Comment string
}
