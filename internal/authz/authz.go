// Package authz decides whether an actor may perform an action on a course.
package authz

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotInstructor   = errors.New("user is not an instructor")
	ErrForbidden       = errors.New("user does not own this course")
)

// Action names a guarded course operation.
type Action string

const (
	ActionCreateCourse  Action = "course:create"
	ActionUpdateCourse  Action = "course:update"
	ActionPublishCourse Action = "course:publish"
	ActionAddLesson     Action = "lesson:add"
	ActionUpdateLesson  Action = "lesson:update"
	ActionRemoveLesson  Action = "lesson:remove"
	ActionViewStudents  Action = "course:students"
)

// Actor is the authenticated caller.
type Actor struct {
	ID    uuid.UUID
	Roles types.RoleSet
}

// Resource is the course being acted on. OwnerID is zero for creation.
type Resource struct {
	OwnerID uuid.UUID
}

// Course builds the resource for a course owned by instructorID.
func Course(instructorID uuid.UUID) Resource {
	return Resource{OwnerID: instructorID}
}

// Authorize returns nil when actor may perform action on res.
// Every course action requires the Instructor role; all but creation also require ownership.
func Authorize(actor Actor, action Action, res Resource) error {
	if actor.ID == uuid.Nil {
		return ErrUnauthenticated
	}
	if !actor.Roles.Has(types.RoleInstructor) {
		return ErrNotInstructor
	}

	switch action {
	case ActionCreateCourse:
		return nil
	case ActionUpdateCourse, ActionPublishCourse, ActionAddLesson, ActionUpdateLesson, ActionRemoveLesson, ActionViewStudents:
		if res.OwnerID == uuid.Nil || res.OwnerID != actor.ID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
