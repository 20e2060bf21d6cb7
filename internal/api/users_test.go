package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/testutil/fakeapi"
)

func TestRegisterAndLogin(t *testing.T) {
	srv := fakeapi.New(t)
	c := NewClient(srv.URL())
	ctx := context.Background()

	user, err := c.Register(ctx, Registration{Email: "ada@example.com", Password: "pw", Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.False(t, user.IsAdmin)
	assert.Empty(t, srv.LastRequest().Identity)

	_, err = c.Register(ctx, Registration{Email: "ada@example.com", Password: "pw", Name: "Ada"})
	assert.Equal(t, "User already exists", Message(err))

	logged, err := c.Login(ctx, Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = c.Login(ctx, Credentials{Email: "ada@example.com", Password: "nope"})
	assert.True(t, IsRequestError(err, http.StatusUnauthorized))
	assert.Equal(t, "Invalid email or password", Message(err))
}

func TestAdminOperations(t *testing.T) {
	srv := fakeapi.New(t)
	admin := srv.SeedUser("root@example.com", "pw", "Root", true)
	bob := srv.SeedUser("bob@example.com", "pw", "Bob", false)
	c := NewClient(srv.URL())
	ctx := context.Background()
	as := Identity(admin.ID)

	isAdmin, err := c.CheckAdmin(ctx, as)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = c.CheckAdmin(ctx, Identity(bob.ID))
	require.NoError(t, err)
	assert.False(t, isAdmin)

	users, err := c.ListUsers(ctx, as)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	res, err := c.ToggleAdmin(ctx, as, bob.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, "/user/admin/users/"+bob.ID+"/toggle-admin", srv.LastRequest().Path)

	created, err := c.CreateAdmin(ctx, as, Registration{Email: "eve@example.com", Password: "pw", Name: "Eve"})
	require.NoError(t, err)
	assert.True(t, created.IsAdmin)

	_, err = c.DeleteUser(ctx, as, bob.ID)
	require.NoError(t, err)

	users, err = c.ListUsers(ctx, as)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminOperationsRejectNonAdmins(t *testing.T) {
	srv := fakeapi.New(t)
	bob := srv.SeedUser("bob@example.com", "pw", "Bob", false)
	c := NewClient(srv.URL())
	ctx := context.Background()

	_, err := c.ListUsers(ctx, Identity(bob.ID))
	assert.True(t, IsRequestError(err, http.StatusForbidden))
	assert.Equal(t, "Admin access required", Message(err))

	_, err = c.ListUsers(ctx, Anonymous)
	assert.True(t, IsRequestError(err, http.StatusUnauthorized))
}
