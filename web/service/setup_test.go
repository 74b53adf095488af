package service

import (
	"testing"
	"time"

	"github.com/techinsight/blog/caching"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/web/entity"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

var (
	admin = entity.Identity{UserId: 1, Username: "admin", Role: entity.RoleAdmin}
	alice = entity.Identity{UserId: 2, Username: "alice", Role: entity.RoleUser}
	bob   = entity.Identity{UserId: 3, Username: "bob", Role: entity.RoleUser}
)

// setup opens a fresh data folder holding the seeded admin, alice and bob.
func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB(t.TempDir()))

	timeNow = func() time.Time { return fixedNow }
	caching.Default().Memory().Flush()
	t.Cleanup(func() {
		timeNow = time.Now
		caching.Default().Memory().Flush()
	})

	var us UserService
	for _, name := range []string{"alice", "bob"} {
		_, err := us.Register(RegisterForm{Username: name, Email: name + "@example.com", Password: "secret"})
		require.NoError(t, err)
	}
}

func authorId(id int) *int {
	return &id
}

func savePosts(t *testing.T, posts ...model.Post) {
	t.Helper()
	require.NoError(t, database.GetStore().Save(database.Posts, posts))
}

func saveComments(t *testing.T, comments ...model.Comment) {
	t.Helper()
	require.NoError(t, database.GetStore().Save(database.Comments, comments))
}

func cardIds(cards []entity.PostCard) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.Id
	}
	return ids
}
