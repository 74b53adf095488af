package database

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/techinsight/blog/util/metrics"

	"github.com/goccy/go-json"
	"go.uber.org/atomic"
)

// Collection names one JSON document of the store.
type Collection string

const (
	Users      Collection = "users"
	Posts      Collection = "posts"
	Comments   Collection = "comments"
	Categories Collection = "categories"
	Analytics  Collection = "analytics"
)

// AllCollections lists every document, in lock order.
var AllCollections = []Collection{Analytics, Categories, Comments, Posts, Users}

func (c Collection) FileName() string {
	return string(c) + ".json"
}

// emptyDoc is what a missing or null document is written as.
func (c Collection) emptyDoc() []byte {
	if c == Analytics {
		return []byte(`{"post_views": {}}`)
	}
	return []byte("[]")
}

// Store reads and rewrites whole JSON documents in a folder. Writers of one
// collection are serialized; every write replaces the file atomically.
type Store struct {
	dir        string
	locks      map[Collection]*sync.Mutex
	generation atomic.Int64
}

func NewStore(dir string) *Store {
	locks := make(map[Collection]*sync.Mutex, len(AllCollections))
	for _, c := range AllCollections {
		locks[c] = &sync.Mutex{}
	}
	return &Store{dir: dir, locks: locks}
}

func (s *Store) Dir() string {
	return s.dir
}

// Generation increases on every committed write.
func (s *Store) Generation() int64 {
	return s.generation.Load()
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, c.FileName())
}

func (s *Store) lock(c Collection) *sync.Mutex {
	if l, ok := s.locks[c]; ok {
		return l
	}
	panic("unknown collection: " + string(c))
}

// Load decodes the document of c into dest. A missing file leaves dest untouched.
func (s *Store) Load(c Collection, dest any) error {
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()
	return s.read(c, dest)
}

// Save replaces the document of c with v.
func (s *Store) Save(c Collection, v any) error {
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()
	return s.write(c, v)
}

// ErrUnchanged tells Update that fn left the document as it was.
var ErrUnchanged = errors.New("document unchanged")

// Update loads c into dest, calls fn and writes dest back when fn succeeds.
// The collection stays locked for the whole cycle. fn returns ErrUnchanged to
// skip the write.
func (s *Store) Update(c Collection, dest any, fn func() error) error {
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()

	if err := s.read(c, dest); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}
	return s.write(c, dest)
}

func (s *Store) read(c Collection, dest any) error {
	data, err := os.ReadFile(s.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &DecodeError{Collection: c, Err: err}
	}
	return nil
}

func (s *Store) write(c Collection, v any) error {
	data, err := encode(c, v)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path(c), data); err != nil {
		return err
	}
	s.generation.Inc()
	metrics.RecordWrite(string(c))
	return nil
}

func encode(c Collection, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, []byte("null")) {
		data = c.emptyDoc()
	}
	return data, nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// lockAll locks the given collections in a fixed order and returns the unlock func.
func (s *Store) lockAll(cs []Collection) func() {
	ordered := append([]Collection(nil), cs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	held := make([]*sync.Mutex, 0, len(ordered))
	for i, c := range ordered {
		if i > 0 && ordered[i-1] == c {
			continue
		}
		l := s.lock(c)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// DecodeError reports a document that is not valid JSON for its collection.
type DecodeError struct {
	Collection Collection
	Err        error
}

func (e *DecodeError) Error() string {
	return "decode " + e.Collection.FileName() + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
