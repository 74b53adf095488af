package database

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"

	"github.com/goccy/go-json"
)

const schemaFileName = "schema.json"

type schemaInfo struct {
	Version int `json:"version"`
}

type migration struct {
	version int
	name    string
	apply   func(s *Store) error
}

var migrations = []migration{
	{version: 1, name: "default user and post fields", apply: defaultRecordFields},
	{version: 2, name: "analytics document shape", apply: normalizeAnalytics},
}

// LatestSchemaVersion is the version a migrated data folder ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the version recorded in the data folder, 0 if none.
func (s *Store) SchemaVersion() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, schemaFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var info schemaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return 0, err
	}
	return info.Version, nil
}

func (s *Store) setSchemaVersion(version int) error {
	data, err := json.Marshal(schemaInfo{Version: version})
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, schemaFileName), data)
}

// Migrate applies every migration newer than the recorded schema version.
func (s *Store) Migrate() error {
	current, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		logger.Infof("applying migration %d: %s", m.version, m.name)
		if err := m.apply(s); err != nil {
			return err
		}
		if err := s.setSchemaVersion(m.version); err != nil {
			return err
		}
	}
	return nil
}

// defaultRecordFields fills the fields older documents lack, so the typed
// model never has to guess whether a value is missing or empty.
func defaultRecordFields(s *Store) error {
	var users []map[string]any
	err := s.Update(Users, &users, func() error {
		for _, u := range users {
			isAdmin, _ := u["is_admin"].(bool)
			setDefault(u, "is_admin", false)
			setDefault(u, "email", "")
			setDefault(u, "last_login", nil)
			if isAdmin {
				setDefault(u, "bio", model.AdminBio)
				setDefault(u, "avatar", model.AdminAvatar)
			} else {
				setDefault(u, "bio", "")
				setDefault(u, "avatar", model.UserAvatar)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	var posts []map[string]any
	return s.Update(Posts, &posts, func() error {
		for _, p := range posts {
			setDefault(p, "tags", []string{})
			setDefault(p, "category", "")
			setDefault(p, "author_id", nil)
			setDefault(p, "date", "")
			setDefault(p, "updated_at", p["date"])
		}
		return nil
	})
}

// normalizeAnalytics turns the array written for a missing analytics file
// into the expected {"post_views": {...}} object.
func normalizeAnalytics(s *Store) error {
	var doc any
	return s.Update(Analytics, &doc, func() error {
		m, ok := doc.(map[string]any)
		if !ok {
			doc = map[string]any{"post_views": map[string]any{}}
			return nil
		}
		setDefault(m, "post_views", map[string]any{})
		return nil
	})
}

func setDefault(record map[string]any, key string, value any) {
	if _, ok := record[key]; !ok {
		record[key] = value
	}
}
