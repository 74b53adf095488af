// Package database persists the blog as flat JSON documents, one per
// collection, inside a data folder.
package database

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/techinsight/blog/logger"
)

var store *Store

// InitDB opens the data folder, finishes any interrupted transaction, applies
// pending schema migrations and seeds the default admin and categories.
func InitDB(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	s := NewStore(dataDir)

	if err := s.Recover(); err != nil {
		return err
	}
	if err := s.Migrate(); err != nil {
		return err
	}
	if err := initAdmin(s); err != nil {
		return err
	}
	if err := initCategories(s); err != nil {
		return err
	}

	store = s
	logger.Info("data folder ready at ", dataDir)
	return nil
}

// GetStore returns the store opened by InitDB.
func GetStore() *Store {
	return store
}

// Backup copies every document into destDir, each under its collection lock.
func Backup(destDir string) error {
	if store == nil {
		return errors.New("database not initialized")
	}
	return store.Backup(destDir)
}

func (s *Store) Backup(destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for _, c := range AllCollections {
		if err := s.copyDocument(c, destDir); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) copyDocument(c Collection, destDir string) error {
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()

	src, err := os.Open(s.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(destDir, c.FileName()))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
