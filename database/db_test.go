package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/util/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBSeeds(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitDB(dir))

	var users []model.User
	require.NoError(t, GetStore().Load(Users, &users))
	require.Len(t, users, 1)
	admin := users[0]
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, model.AdminAvatar, admin.Avatar)
	assert.True(t, crypto.CheckPasswordHash(admin.Password, "admin123"))

	var categories []model.Category
	require.NoError(t, GetStore().Load(Categories, &categories))
	assert.Len(t, categories, 6)

	version, err := GetStore().SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), version)

	// a second start neither duplicates the admin nor reseeds categories
	require.NoError(t, GetStore().Save(Categories, categories[:2]))
	require.NoError(t, InitDB(dir))
	users = nil
	require.NoError(t, GetStore().Load(Users, &users))
	assert.Len(t, users, 1)
	categories = nil
	require.NoError(t, GetStore().Load(Categories, &categories))
	assert.Len(t, categories, 2)
}

func TestMigrateLegacyDocuments(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("users.json", `[
		{"id": 1, "username": "root", "email": "r@x", "password": "h", "is_admin": true},
		{"id": 2, "username": "ann", "email": "a@x", "password": "h", "is_admin": false, "bio": "hi"}
	]`)
	write("posts.json", `[{"id": 1, "title": "Old", "content": "text", "date": "2024-01-01 10:00:00"}]`)
	write("analytics.json", `[]`)

	require.NoError(t, InitDB(dir))
	s := GetStore()

	var users []model.User
	require.NoError(t, s.Load(Users, &users))
	require.Len(t, users, 2)
	assert.Equal(t, model.AdminBio, users[0].Bio)
	assert.Equal(t, model.AdminAvatar, users[0].Avatar)
	assert.Equal(t, "hi", users[1].Bio)
	assert.Equal(t, model.UserAvatar, users[1].Avatar)
	assert.Nil(t, users[1].LastLogin)

	var posts []model.Post
	require.NoError(t, s.Load(Posts, &posts))
	require.Len(t, posts, 1)
	assert.True(t, posts[0].IsLegacy())
	assert.NotNil(t, posts[0].Tags)
	assert.Equal(t, "2024-01-01 10:00:00", posts[0].UpdatedAt)

	var analytics model.Analytics
	require.NoError(t, s.Load(Analytics, &analytics))
	assert.NotNil(t, analytics.PostViews)
}
