package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/techinsight/blog/database/model"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxCommit(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(Posts, []model.Post{{Id: 1}, {Id: 2}}))
	require.NoError(t, s.Save(Comments, []model.Comment{{Id: 1, PostId: 1}, {Id: 2, PostId: 2}}))

	tx := s.Begin(Posts, Comments)
	require.NoError(t, tx.Stage(Posts, []model.Post{{Id: 2}}))
	require.NoError(t, tx.Stage(Comments, []model.Comment{{Id: 2, PostId: 2}}))
	require.NoError(t, tx.Commit())

	var posts []model.Post
	var comments []model.Comment
	require.NoError(t, s.Load(Posts, &posts))
	require.NoError(t, s.Load(Comments, &comments))
	assert.Equal(t, []model.Post{{Id: 2}}, posts)
	assert.Equal(t, []model.Comment{{Id: 2, PostId: 2}}, comments)

	journals, _ := filepath.Glob(filepath.Join(s.Dir(), "txn-*"))
	assert.Empty(t, journals)
	assert.Error(t, tx.Commit())
}

func TestTxRollback(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(Posts, []model.Post{{Id: 1}}))

	tx := s.Begin(Posts)
	require.NoError(t, tx.Stage(Posts, []model.Post{}))
	tx.Rollback()

	var posts []model.Post
	require.NoError(t, s.Load(Posts, &posts))
	assert.Len(t, posts, 1)
}

func TestTxRejectsForeignCollection(t *testing.T) {
	s := NewStore(t.TempDir())
	tx := s.Begin(Posts)
	defer tx.Rollback()

	var users []model.User
	assert.Error(t, tx.Load(Users, &users))
	assert.Error(t, tx.Stage(Users, users))
}

func TestRecoverRollsJournalForward(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Save(Posts, []model.Post{{Id: 1}, {Id: 2}}))
	require.NoError(t, s.Save(Comments, []model.Comment{{Id: 1, PostId: 1}}))

	// a crash after the journal and the first rename
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.json"), []byte(`[{"id": 2}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "comments.json.abc"), []byte(`[]`), 0o644))
	j, err := json.Marshal(journal{Id: "abc", Files: []journalEntry{
		{Staged: "posts.json.abc", Target: "posts.json"},
		{Staged: "comments.json.abc", Target: "comments.json"},
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "txn-abc.json"), j, 0o644))

	// an orphan staged file without a journal
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json.def"), []byte(`[]`), 0o644))

	require.NoError(t, s.Recover())

	var comments []model.Comment
	require.NoError(t, s.Load(Comments, &comments))
	assert.Empty(t, comments)

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.json.*"))
	assert.Empty(t, leftovers)
	journals, _ := filepath.Glob(filepath.Join(dir, "txn-*"))
	assert.Empty(t, journals)
}
