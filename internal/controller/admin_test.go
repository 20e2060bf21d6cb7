package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/logging"
	"github.com/nhle/todolist/internal/model"
)

func newAdminFixture(t *testing.T) (*fixture, *Admin, model.User) {
	t.Helper()
	f := newFixture(t)
	root := f.srv.SeedUser("root@example.com", "pw", "Root", true)
	require.NoError(t, f.store.Set(context.Background(), root))
	return f, NewAdmin(f.client, f.store, logging.Discard()), root
}

func TestAdmin_CheckGuest(t *testing.T) {
	f := newFixture(t)
	a := NewAdmin(f.client, f.store, logging.Discard())

	ok, err := a.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.srv.Requests())
	assert.True(t, a.Snapshot().Checked)
}

func TestAdmin_Check(t *testing.T) {
	_, a, _ := newAdminFixture(t)

	ok, err := a.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, a.Snapshot().IsAdmin)
}

func TestAdmin_LoadDeleteToggle(t *testing.T) {
	f, a, root := newAdminFixture(t)
	ctx := context.Background()
	bob := f.srv.SeedUser("bob@example.com", "pw", "Bob", false)
	eve := f.srv.SeedUser("eve@example.com", "pw", "Eve", false)

	require.NoError(t, a.LoadUsers(ctx))
	assert.Len(t, a.Snapshot().Users, 3)

	require.NoError(t, a.ToggleAdmin(ctx, bob.ID))
	s := a.Snapshot()
	assert.Equal(t, "Admin status updated", s.Notice)
	for _, u := range s.Users {
		if u.ID == bob.ID {
			assert.True(t, u.IsAdmin)
		}
	}

	require.NoError(t, a.DeleteUser(ctx, eve.ID))
	s = a.Snapshot()
	assert.Equal(t, "User deleted successfully", s.Notice)
	assert.Len(t, s.Users, 2)
	for _, u := range s.Users {
		assert.NotEqual(t, eve.ID, u.ID)
	}

	err := a.DeleteUser(ctx, root.ID)
	require.Error(t, err)
	assert.Equal(t, "Cannot delete your own account", a.Snapshot().Err)
	assert.Len(t, a.Snapshot().Users, 2)
}

func TestAdmin_CreateAdmin(t *testing.T) {
	_, a, _ := newAdminFixture(t)
	ctx := context.Background()
	require.NoError(t, a.LoadUsers(ctx))

	_, err := a.CreateAdmin(ctx, "ops@example.com", "", "Ops")
	assert.True(t, IsValidationError(err))

	user, err := a.CreateAdmin(ctx, "ops@example.com", "pw", "Ops")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	s := a.Snapshot()
	assert.Len(t, s.Users, 2)
	assert.Equal(t, "Created admin Ops", s.Notice)
}

func TestAdmin_NonAdminRejectedByServer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.srv.SeedUser("bob@example.com", "pw", "Bob", false)
	require.NoError(t, f.store.Set(ctx, user))
	a := NewAdmin(f.client, f.store, logging.Discard())

	err := a.LoadUsers(ctx)
	require.Error(t, err)
	assert.True(t, api.IsRequestError(err, http.StatusForbidden))
	assert.Equal(t, "Admin access required", a.Snapshot().Err)
	assert.Empty(t, a.Snapshot().Users)
}

func TestAdmin_Reset(t *testing.T) {
	_, a, _ := newAdminFixture(t)
	ctx := context.Background()
	_, err := a.Check(ctx)
	require.NoError(t, err)
	require.NoError(t, a.LoadUsers(ctx))

	a.Reset()
	s := a.Snapshot()
	assert.False(t, s.IsAdmin)
	assert.False(t, s.Checked)
	assert.Empty(t, s.Users)
}
