package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ctx := context.Background()
	registry := NewInMemoryRegistry()
	alice := registry.AddIdentity("alice", true)

	tests := []struct {
		name     string
		roleName string
		want     Identity
		wantErr  bool
	}{
		{
			name:     "existing role",
			roleName: "alice",
			want:     alice,
		},
		{
			name:     "missing role",
			roleName: "nobody",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Lookup(ctx, tt.roleName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIdentityNotFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuperuser(t *testing.T) {
	ctx := context.Background()
	registry := NewInMemoryRegistry()
	app := registry.AddIdentity("app", false)

	superuser, err := registry.Superuser(ctx, app.ID)
	require.NoError(t, err)
	assert.False(t, superuser)

	// Lookup must reflect out-of-band privilege changes.
	require.NoError(t, registry.SetSuperuser("app", true))

	superuser, err = registry.Superuser(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, superuser)

	_, err = registry.Superuser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestSetSuperuserUnknownRole(t *testing.T) {
	registry := NewInMemoryRegistry()

	err := registry.SetSuperuser("nobody", true)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestAddIdentityTwice(t *testing.T) {
	ctx := context.Background()
	registry := NewInMemoryRegistry()

	first := registry.AddIdentity("alice", false)
	second := registry.AddIdentity("alice", true)

	// Re-adding updates the flag but keeps the ID stable.
	assert.Equal(t, first.ID, second.ID)

	got, err := registry.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.Superuser)
}
