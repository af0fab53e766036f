package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	_, err = ParseRole("operator")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoleAllows(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.Allows(RoleAdmin))
	assert.True(t, RoleAdmin.Allows(RoleUser))
	assert.True(t, RoleUser.Allows(RoleUser))
	assert.False(t, RoleUser.Allows(RoleAdmin))
	assert.False(t, Role("").Allows(RoleAdmin))
	assert.False(t, Role("").Allows(RoleUser))
}
