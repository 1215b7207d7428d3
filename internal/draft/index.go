// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// index is the SQLite listing index kept beside the draft files. It is a
// cache: dropping the database loses nothing, the next Store open
// rebuilds it from the files.
type index struct {
	db *sql.DB
}

func openIndex(path string) (*index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening draft index: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		provider TEXT,
		model TEXT,
		language TEXT,
		completion INTEGER
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating draft index schema: %w", err)
	}
	return &index{db: db}, nil
}

func (x *index) Close() error { return x.db.Close() }

func (x *index) Upsert(m Meta) error {
	_, err := x.db.Exec(`INSERT INTO drafts (id, created_at, provider, model, language, completion)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provider = excluded.provider,
			model = excluded.model,
			language = excluded.language,
			completion = excluded.completion`,
		m.ID, m.CreatedAt.Format(time.RFC3339), m.Provider, m.Model, m.Language, m.Completion)
	if err != nil {
		return fmt.Errorf("indexing draft %s: %w", m.ID, err)
	}
	return nil
}

func (x *index) Delete(id string) error {
	if _, err := x.db.Exec(`DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing draft %s from index: %w", id, err)
	}
	return nil
}

func (x *index) Has(id string) (bool, error) {
	var one int
	err := x.db.QueryRow(`SELECT 1 FROM drafts WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying draft index: %w", err)
	}
	return true, nil
}

func (x *index) List() ([]Meta, error) {
	rows, err := x.db.Query(`SELECT id, created_at, provider, model, language, completion
		FROM drafts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var created string
		if err := rows.Scan(&m.ID, &created, &m.Provider, &m.Model, &m.Language, &m.Completion); err != nil {
			return nil, fmt.Errorf("scanning draft row: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, created)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}
