package service

import (
	"testing"

	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	setup(t)
	var s UserService

	users, err := s.GetUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, 3, users[2].Id)
	assert.Equal(t, model.UserAvatar, users[2].Avatar)
	assert.False(t, users[2].IsAdmin)
	assert.Equal(t, model.FormatTime(fixedNow), users[2].CreatedAt)

	cases := []struct {
		name string
		form RegisterForm
		want error
	}{
		{"duplicate username", RegisterForm{Username: "alice", Email: "new@example.com", Password: "secret"}, ErrDuplicate},
		{"duplicate email", RegisterForm{Username: "carol", Email: "BOB@example.com", Password: "secret"}, ErrDuplicate},
		{"blank username", RegisterForm{Username: " ", Email: "c@example.com", Password: "secret"}, ErrInvalidInput},
		{"short password", RegisterForm{Username: "carol", Email: "c@example.com", Password: "abc"}, ErrInvalidInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := s.Register(c.form)
			assert.ErrorIs(t, err, c.want)
			users, err := s.GetUsers()
			require.NoError(t, err)
			assert.Len(t, users, 3)
		})
	}
}

func TestCheckUser(t *testing.T) {
	setup(t)
	var s UserService

	assert.Nil(t, s.CheckUser("alice", "wrong", entity.RoleUser))
	assert.Nil(t, s.CheckUser("alice", "secret", entity.RoleAdmin))
	assert.Nil(t, s.CheckUser("admin", "admin123", entity.RoleUser))
	assert.Nil(t, s.CheckUser("nobody", "secret", entity.RoleUser))

	user := s.CheckUser("alice", "secret", entity.RoleUser)
	require.NotNil(t, user)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, model.FormatTime(fixedNow), *user.LastLogin)

	stored, err := s.GetUser(user.Id)
	require.NoError(t, err)
	assert.Equal(t, user.LastLogin, stored.LastLogin)

	adminUser := s.CheckUser("admin", "admin123", entity.RoleAdmin)
	require.NotNil(t, adminUser)
	assert.True(t, adminUser.IsAdmin)
}

func TestUpdateProfile(t *testing.T) {
	setup(t)
	var s UserService

	err := s.UpdateProfile(alice.UserId, ProfileForm{Email: "bob@example.com", Bio: "taken"})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, s.UpdateProfile(alice.UserId, ProfileForm{
		Email:  "alice@new.example.com",
		Bio:    " Gopher ",
		Avatar: "fas fa-code",
	}))
	user, err := s.GetUser(alice.UserId)
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", user.Email)
	assert.Equal(t, "Gopher", user.Bio)
	assert.Equal(t, "fas fa-code", user.Avatar)

	assert.ErrorIs(t, s.UpdateProfile(99, ProfileForm{}), ErrNotFound)
}

func TestResetAdmin(t *testing.T) {
	setup(t)
	var s UserService

	assert.ErrorIs(t, s.ResetAdmin("alice", "newpass"), ErrDuplicate)
	require.NoError(t, s.ResetAdmin("root", "newpass"))

	first, err := s.GetFirstAdmin()
	require.NoError(t, err)
	assert.Equal(t, "root", first.Username)
	assert.NotNil(t, s.CheckUser("root", "newpass", entity.RoleAdmin))
	assert.Nil(t, s.CheckUser("admin", "admin123", entity.RoleAdmin))
}
