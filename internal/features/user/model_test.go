package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cretpass", bcrypt.MinCost)
	require.NoError(t, err)

	usr := &User{Password: hash}
	assert.True(t, usr.ComparePassword("s3cretpass"))
	assert.False(t, usr.ComparePassword("wrongpass"))
}

func TestHashPasswordRejectsShort(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

func TestProfileOmitsSecrets(t *testing.T) {
	usr := &User{Name: "Ada", Email: "ada@example.com", Password: "hash", Picture: DefaultPicture}
	p := usr.Profile()
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, DefaultPicture, p.Picture)
}
