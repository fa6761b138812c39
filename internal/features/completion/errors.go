package completion

import "errors"

// ErrLessonNotInCourse is returned when the lesson does not belong to the course.
var ErrLessonNotInCourse = errors.New("lesson not found in course")
