package course

import (
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Course is a priced, publishable bundle of lessons owned by one instructor.
type Course struct {
	types.BaseModel

	Name         string      `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string      `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Price        types.Money `gorm:"type:numeric(10,2);not null;default:9.99" json:"price"`
	Image        string      `gorm:"type:varchar(500);not null" json:"image"`
	Category     string      `gorm:"type:varchar(100);index" json:"category"`
	Paid         bool        `gorm:"not null;default:true" json:"paid"`
	Published    bool        `gorm:"not null;default:false;index" json:"published"`
	InstructorID uuid.UUID   `gorm:"type:uuid;not null;index;column:instructor_id" json:"instructorId"`

	Instructor *Instructor `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Lessons    []Lesson    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// Instructor is the owning user as embedded in course payloads.
type Instructor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `json:"name"`
	StripeAccountID *string   `gorm:"column:stripe_account_id" json:"-"`
}

// TableName points the association at the users table.
func (Instructor) TableName() string { return "users" }

// Lesson is an ordered unit of course content.
type Lesson struct {
	types.BaseModel

	CourseID    uuid.UUID `gorm:"type:uuid;not null;index:idx_course_lesson_position,priority:1" json:"courseId"`
	Position    int       `gorm:"not null;default:0;index:idx_course_lesson_position,priority:2" json:"position"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string    `gorm:"type:varchar(200);not null" json:"slug"`
	Content     string    `gorm:"type:text" json:"content,omitempty"`
	Video       string    `gorm:"type:varchar(500)" json:"video,omitempty"`
	FreePreview bool      `gorm:"not null;default:false;column:free_preview" json:"free_preview"`
}

// TableName overrides the default table name.
func (Lesson) TableName() string { return "course_lessons" }

// HasLesson reports whether lessonID belongs to the course.
func (c *Course) HasLesson(lessonID uuid.UUID) bool {
	for _, lesson := range c.Lessons {
		if lesson.ID == lessonID {
			return true
		}
	}
	return false
}

// PublicView hides the body of lessons that are not free previews.
func (c Course) PublicView() Course {
	lessons := make([]Lesson, len(c.Lessons))
	for i, lesson := range c.Lessons {
		if !lesson.FreePreview {
			lesson.Content = ""
			lesson.Video = ""
		}
		lessons[i] = lesson
	}
	c.Lessons = lessons
	return c
}

// Summary is a catalog entry with its rating aggregate.
type Summary struct {
	Course
	AverageRating   float64 `json:"averageRating"`
	NumberOfRatings int64   `json:"numberOfRatings"`
}

// ReviewView is a review as shown on the course page.
type ReviewView struct {
	ID        uuid.UUID    `json:"id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
	User      ReviewAuthor `json:"user"`
}

// ReviewAuthor is the public part of a reviewer.
type ReviewAuthor struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Picture string    `json:"picture"`
}

// Detail is the public course page.
type Detail struct {
	Course
	Reviews []ReviewView `json:"reviews"`
}

// Rating aggregates the reviews of one course.
type Rating struct {
	CourseID        uuid.UUID
	AverageRating   float64
	NumberOfRatings int64
}

// Filters narrows course listings.
type Filters struct {
	SearchTerm string
	Category   string
	Paid       *bool
}

// SortableFields maps public sort keys to columns.
var SortableFields = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
}
