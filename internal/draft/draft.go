// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft persists Newsletter snapshots as JSON files so work can
// be resumed later.
//
// The record format is flat and forward-compatible: loading tolerates
// missing keys by substituting defaults and ignores unknown keys, so
// drafts written by older or newer builds stay loadable. A SQLite index
// beside the draft files makes listing cheap; the files themselves remain
// the source of truth.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// now is stubbed in tests to pin draft identifiers.
var now = time.Now

// idPrefix and idTimeLayout define the draft identifier scheme. Two saves
// within the same second get a _2, _3, ... suffix instead of colliding.
const (
	idPrefix     = "draft_"
	idTimeLayout = "20060102_150405"
)

// PersistenceError reports an unreadable or corrupt draft.
type PersistenceError struct {
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("draft %s: %v", e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Meta summarizes one stored draft for listings.
type Meta struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Language   string    `json:"language"`
	Completion int       `json:"completion"`
}

// Store reads and writes drafts in a directory. Saves are plain file
// writes with no locking; concurrent savers are last-write-wins.
type Store struct {
	dir string
	idx *index
}

// NewStore opens (or creates) the draft directory and its index database,
// reconciling any draft files the index has not seen.
func NewStore(cfg types.DraftConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "drafts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating drafts directory: %w", err)
	}
	idx, err := openIndex(filepath.Join(dir, "drafts.db"))
	if err != nil {
		return nil, err
	}
	s := &Store{dir: dir, idx: idx}
	if err := s.reconcile(); err != nil {
		idx.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the index database.
func (s *Store) Close() error { return s.idx.Close() }

// Dir returns the draft directory path.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes a new draft and returns its identifier. Identifiers carry
// second resolution; a same-second save gets a sequence suffix rather
// than overwriting the earlier draft.
func (s *Store) Save(n *types.Newsletter) (string, error) {
	created := now()
	base := idPrefix + created.Format(idTimeLayout)
	id := base
	for seq := 2; ; seq++ {
		_, err := os.Stat(s.path(id))
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return "", &PersistenceError{ID: id, Err: err}
		}
		id = base + "_" + strconv.Itoa(seq)
	}
	if err := s.write(id, n); err != nil {
		return "", err
	}
	return id, s.idx.Upsert(metaFor(id, created, n))
}

// Update rewrites an existing draft in place, keeping its identifier.
func (s *Store) Update(id string, n *types.Newsletter) error {
	if _, err := os.Stat(s.path(id)); err != nil {
		return &PersistenceError{ID: id, Err: err}
	}
	if err := s.write(id, n); err != nil {
		return err
	}
	created, _ := parseID(id)
	return s.idx.Upsert(metaFor(id, created, n))
}

func (s *Store) write(id string, n *types.Newsletter) error {
	data, err := Marshal(n)
	if err != nil {
		return &PersistenceError{ID: id, Err: err}
	}
	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return &PersistenceError{ID: id, Err: err}
	}
	return nil
}

// Load reconstructs a Newsletter from a stored draft. Corrupt or missing
// drafts yield a PersistenceError; the caller gets no partially populated
// aggregate.
func (s *Store) Load(id string) (*types.Newsletter, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, &PersistenceError{ID: id, Err: err}
	}
	n, err := Unmarshal(data)
	if err != nil {
		return nil, &PersistenceError{ID: id, Err: err}
	}
	return n, nil
}

// List returns stored draft summaries, newest first.
func (s *Store) List() ([]Meta, error) {
	return s.idx.List()
}

// Delete removes a draft file and its index row.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		return &PersistenceError{ID: id, Err: err}
	}
	return s.idx.Delete(id)
}

// Prune deletes drafts older than maxAge and reports how many were
// removed.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	metas, err := s.idx.List()
	if err != nil {
		return 0, err
	}
	cutoff := now().Add(-maxAge)
	removed := 0
	for _, m := range metas {
		if m.CreatedAt.Before(cutoff) {
			if err := s.Delete(m.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// reconcile indexes draft files that predate the index database.
func (s *Store) reconcile() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading drafts directory: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		known, err := s.idx.Has(id)
		if err != nil {
			return err
		}
		if known {
			continue
		}
		n, err := s.Load(id)
		if err != nil {
			// Corrupt stragglers stay unindexed but are not fatal.
			continue
		}
		created, ok := parseID(id)
		if !ok {
			if info, err := e.Info(); err == nil {
				created = info.ModTime()
			}
		}
		if err := s.idx.Upsert(metaFor(id, created, n)); err != nil {
			return err
		}
	}
	return nil
}

func metaFor(id string, created time.Time, n *types.Newsletter) Meta {
	return Meta{
		ID:         id,
		CreatedAt:  created,
		Provider:   n.SelectedProvider,
		Model:      n.SelectedModel,
		Language:   string(n.Language),
		Completion: n.CompletionPercent(),
	}
}

// parseID recovers the creation time embedded in a draft identifier.
func parseID(id string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return time.Time{}, false
	}
	// Strip a collision suffix: draft_YYYYMMDD_HHMMSS_N.
	if len(rest) > len(idTimeLayout) {
		rest = rest[:len(idTimeLayout)]
	}
	t, err := time.ParseInLocation(idTimeLayout, rest, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
