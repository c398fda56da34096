package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "", nilUser.Name())
	assert.Equal(t, "ada", (&User{Username: "ada"}).Name())
	assert.Equal(t, "Ada", (&User{Username: "ada", DisplayName: "Ada"}).Name())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleUser))
	assert.False(t, ValidRole("root"))
}
