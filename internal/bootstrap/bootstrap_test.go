package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsRegisterUsersBeforeCourses(t *testing.T) {
	names := Migrations().Names()
	assert.Equal(t, "enable pgcrypto", names[0])
	assert.Len(t, names, len(Models())+1)
	assert.Equal(t, "auto migrate *user.User", names[1])
	assert.Equal(t, "auto migrate *course.Course", names[2])
}

func TestIsUndefinedTableError(t *testing.T) {
	assert.True(t, isUndefinedTableError(errors.New(`ERROR: relation "users" does not exist (SQLSTATE 42P01)`)))
	assert.False(t, isUndefinedTableError(errors.New("connection refused")))
	assert.False(t, isUndefinedTableError(nil))
}
