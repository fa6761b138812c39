package review

import "errors"

var (
	// ErrNotEnrolled is returned when a user reviews a course they are not enrolled in.
	ErrNotEnrolled = errors.New("not enrolled in course")
	// ErrAlreadyReviewed is returned on a second review of the same course.
	ErrAlreadyReviewed = errors.New("course already reviewed")
)
