package semanticmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageForActionMapped(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Successful login", messageForAction("user_login_success"))
	assert.Equal(t, "Logout", messageForAction("user_logout"))
}

func TestMessageForActionDefaultsToAction(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "LOGIN", messageForAction("LOGIN"))
}
