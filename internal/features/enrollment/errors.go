package enrollment

import "errors"

var (
	ErrCoursePaid             = errors.New("this course is paid")
	ErrCourseFree             = errors.New("this course is free")
	ErrInstructorNotConnected = errors.New("instructor stripe account not connected")
	ErrSessionNotFound        = errors.New("stripe session id not found or invalid")
	ErrNotEnrolled            = errors.New("user is not enrolled in this course")
	ErrProvider               = errors.New("payment provider request failed")
)
