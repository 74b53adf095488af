package database

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/util/common"
	"github.com/techinsight/blog/util/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const journalPrefix = "txn-"

// journal is written before any staged document is moved into place, so a
// crash in between can be rolled forward on the next start.
type journal struct {
	Id    string         `json:"id"`
	Files []journalEntry `json:"files"`
}

// journalEntry holds file names relative to the data folder.
type journalEntry struct {
	Staged string `json:"staged"`
	Target string `json:"target"`
}

// Tx rewrites several documents as one unit. The collections passed to Begin
// stay locked until Commit or Rollback.
type Tx struct {
	s      *Store
	id     string
	cs     map[Collection]bool
	staged map[Collection][]byte
	order  []Collection
	unlock func()
	done   bool
}

// Begin locks cs and starts a transaction over them.
func (s *Store) Begin(cs ...Collection) *Tx {
	set := make(map[Collection]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return &Tx{
		s:      s,
		id:     uuid.NewString(),
		cs:     set,
		staged: make(map[Collection][]byte, len(cs)),
		unlock: s.lockAll(cs),
	}
}

// Load reads the committed document of c.
func (tx *Tx) Load(c Collection, dest any) error {
	if !tx.cs[c] {
		return common.NewErrorf("collection %s is not part of the transaction", c)
	}
	return tx.s.read(c, dest)
}

// Stage records the new content of c; nothing is written before Commit.
func (tx *Tx) Stage(c Collection, v any) error {
	if !tx.cs[c] {
		return common.NewErrorf("collection %s is not part of the transaction", c)
	}
	data, err := encode(c, v)
	if err != nil {
		return err
	}
	if _, ok := tx.staged[c]; !ok {
		tx.order = append(tx.order, c)
	}
	tx.staged[c] = data
	return nil
}

// Commit writes every staged document, then the journal, then moves the
// staged files into place and removes the journal.
func (tx *Tx) Commit() (err error) {
	if tx.done {
		return errors.New("transaction already finished")
	}
	defer tx.finish()

	j := journal{Id: tx.id}
	journaled := false
	defer func() {
		if err != nil && !journaled {
			for _, f := range j.Files {
				os.Remove(filepath.Join(tx.s.dir, f.Staged))
			}
		}
	}()
	for _, c := range tx.order {
		target := c.FileName()
		staged := target + "." + tx.id
		if err = os.WriteFile(filepath.Join(tx.s.dir, staged), tx.staged[c], 0o644); err != nil {
			return err
		}
		j.Files = append(j.Files, journalEntry{Staged: staged, Target: target})
	}
	if len(j.Files) == 0 {
		return nil
	}

	journalPath := filepath.Join(tx.s.dir, journalPrefix+tx.id+".json")
	data, err := json.Marshal(j)
	if err != nil {
		return err
	}
	if err = writeFileAtomic(journalPath, data); err != nil {
		return err
	}
	journaled = true
	if err = applyJournal(tx.s.dir, j); err != nil {
		// the journal stays behind and is replayed by Recover
		logger.Error("transaction ", tx.id, " left pending: ", err)
		return err
	}
	for _, c := range tx.order {
		tx.s.generation.Inc()
		metrics.RecordWrite(string(c))
	}
	return os.Remove(journalPath)
}

// Rollback drops the staged documents.
func (tx *Tx) Rollback() {
	if tx.done {
		return
	}
	tx.finish()
}

func (tx *Tx) finish() {
	tx.done = true
	tx.staged = nil
	tx.unlock()
}

// applyJournal moves the staged files of j, relative to dir, over their targets.
func applyJournal(dir string, j journal) error {
	for _, f := range j.Files {
		err := os.Rename(filepath.Join(dir, f.Staged), filepath.Join(dir, f.Target))
		if errors.Is(err, fs.ErrNotExist) {
			// already moved by an earlier attempt
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Recover rolls forward the transactions whose journal survived a crash and
// removes staged or temporary files nobody will commit.
func (s *Store) Recover() error {
	unlock := s.lockAll(AllCollections)
	defer unlock()

	journals, err := filepath.Glob(filepath.Join(s.dir, journalPrefix+"*.json"))
	if err != nil {
		return err
	}
	for _, path := range journals {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var j journal
		if err := json.Unmarshal(data, &j); err != nil {
			logger.Warning("dropping unreadable journal ", path, ": ", err)
			os.Remove(path)
			continue
		}
		if err := applyJournal(s.dir, j); err != nil {
			return err
		}
		logger.Info("recovered transaction ", j.Id)
		if err := os.Remove(path); err != nil {
			return err
		}
	}

	for _, c := range AllCollections {
		leftovers, err := filepath.Glob(s.path(c) + ".*")
		if err != nil {
			return err
		}
		for _, f := range leftovers {
			logger.Debug("removing leftover ", f)
			os.Remove(f)
		}
	}
	return nil
}
