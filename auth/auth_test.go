package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("customer"))
	assert.Equal(t, RoleUser, ParseRole("Admin"), "role matching is exact")
}

func TestOrderPolicies(t *testing.T) {
	admin := Caller{ID: "1", Email: "admin@x.com", Role: RoleAdmin}
	user := Caller{ID: "2", Email: "user@x.com", Role: RoleUser}

	assert.True(t, CanViewAllOrders(admin))
	assert.True(t, CanManageOrders(admin))

	assert.False(t, CanViewAllOrders(user))
	assert.False(t, CanManageOrders(user))

	assert.False(t, CanManageOrders(Caller{}), "zero-value caller has no rights")
}
