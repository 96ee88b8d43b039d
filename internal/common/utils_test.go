package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("ERROR: Duplicate Key value", "duplicate key"))
	assert.True(t, HasAny("abc", "x", "B"))
	assert.False(t, HasAny("abc", "x", "y"))
	assert.False(t, HasAny("abc"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}
