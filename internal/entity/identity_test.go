package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	id := NewIdentity(&User{ID: 4, Email: "a@b.c", Nickname: "neo"})
	assert.Equal(t, uint(4), id.UserID())
	assert.Equal(t, "a@b.c", id.Email())
	assert.Equal(t, "neo", id.Nickname())
	assert.False(t, id.IsZero())
	assert.True(t, id.Owns(4))
	assert.False(t, id.Owns(5))

	var anon Identity
	assert.True(t, anon.IsZero())
	assert.False(t, anon.Owns(0))
}
