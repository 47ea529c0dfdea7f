package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleOperator, ParseRole("operator"))
	assert.Equal(t, RoleOperator, ParseRole("Operator"))
	assert.Equal(t, RoleAdministrator, ParseRole("administrator"))
	assert.Equal(t, RoleGuest, ParseRole("guest"))
	assert.Equal(t, RoleGuest, ParseRole(""))
	assert.Equal(t, RoleGuest, ParseRole("superuser"))
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleOperator.In(RoleAdministrator, RoleOperator))
	assert.False(t, RoleOperator.In(RoleAdministrator))
	assert.False(t, RoleOperator.In())
}
