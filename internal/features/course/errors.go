package course

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrSlugTaken      = errors.New("slug is taken")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrSlugRequired   = errors.New("slug is required")
)
