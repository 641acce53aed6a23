package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-elevate/pkg/identity"
)

func TestSessionEffectiveIdentity(t *testing.T) {
	app := identity.Identity{ID: uuid.New(), Name: "app", Superuser: false}
	alice := identity.Identity{ID: uuid.New(), Name: "alice", Superuser: true}

	sess := New(app)
	assert.Equal(t, app, sess.Effective())
	assert.False(t, sess.EffectiveSuperuser())

	sess.SetEffective(alice, alice.Superuser)
	assert.Equal(t, alice, sess.Effective())
	assert.True(t, sess.EffectiveSuperuser())

	// The flag is carried independently of the identity struct.
	sess.SetEffective(alice, false)
	assert.False(t, sess.EffectiveSuperuser())
}
