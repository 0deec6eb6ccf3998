// Package store persists chapters and positions in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

// ErrNotFound is returned when a chapter does not exist.
var ErrNotFound = errors.New("store: chapter not found")

// Store wraps a sql.DB with chapter-specific helpers.
type Store struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{DB: sqlDB, path: path}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*Store, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	s := &Store{DB: sqlDB, path: ":memory:"}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate runs all schema migrations.
func (s *Store) migrate() error {
	_, err := s.Exec(schema)
	return err
}

// schema contains the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS chapters (
    number TEXT PRIMARY KEY,
    content TEXT NOT NULL DEFAULT '',
    general_notes TEXT NOT NULL DEFAULT '',
    sections TEXT,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS positions (
    id TEXT PRIMARY KEY,
    chapter TEXT NOT NULL REFERENCES chapters(number) ON DELETE CASCADE,
    code TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    level INTEGER NOT NULL DEFAULT 0,
    rate TEXT NOT NULL DEFAULT '',
    UNIQUE(chapter, code)
);

CREATE INDEX IF NOT EXISTS idx_positions_chapter ON positions(chapter);
`

// SaveChapter inserts or replaces a chapter and its positions.
func (s *Store) SaveChapter(ctx context.Context, ch *tariff.Chapter) error {
	var sections sql.NullString
	if ch.Sections != nil {
		data, err := json.Marshal(ch.Sections)
		if err != nil {
			return fmt.Errorf("marshalling sections: %w", err)
		}
		sections = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chapters (number, content, general_notes, sections, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(number) DO UPDATE SET
			content = excluded.content,
			general_notes = excluded.general_notes,
			sections = excluded.sections,
			updated_at = excluded.updated_at`,
		ch.Number, ch.RawContent, ch.GeneralNotes, sections)
	if err != nil {
		return fmt.Errorf("saving chapter %s: %w", ch.Number, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE chapter = ?`, ch.Number); err != nil {
		return fmt.Errorf("clearing positions for chapter %s: %w", ch.Number, err)
	}
	for _, p := range ch.Positions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO positions (id, chapter, code, description, level, rate)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), ch.Number, p.Code, p.Description, p.Level, p.Rate)
		if err != nil {
			return fmt.Errorf("saving position %s: %w", p.Code, err)
		}
	}

	return tx.Commit()
}

// GetChapter loads one chapter with its positions.
func (s *Store) GetChapter(ctx context.Context, number string) (*tariff.Chapter, error) {
	ch := &tariff.Chapter{Number: number}
	var sections sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT content, general_notes, sections FROM chapters WHERE number = ?`,
		number).Scan(&ch.RawContent, &ch.GeneralNotes, &sections)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading chapter %s: %w", number, err)
	}

	if sections.Valid && sections.String != "" {
		var sec tariff.ChapterSections
		if err := json.Unmarshal([]byte(sections.String), &sec); err != nil {
			return nil, fmt.Errorf("unmarshalling sections for chapter %s: %w", number, err)
		}
		ch.Sections = &sec
	}

	rows, err := s.QueryContext(ctx, `
		SELECT code, description, level, rate FROM positions
		WHERE chapter = ? ORDER BY code`, number)
	if err != nil {
		return nil, fmt.Errorf("loading positions for chapter %s: %w", number, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p tariff.Position
		if err := rows.Scan(&p.Code, &p.Description, &p.Level, &p.Rate); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		ch.Positions = append(ch.Positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating positions: %w", err)
	}

	return ch, nil
}

// ListChapters returns all chapter numbers in numeric order.
func (s *Store) ListChapters(ctx context.Context) ([]string, error) {
	rows, err := s.QueryContext(ctx, `SELECT number FROM chapters`)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning chapter number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters: %w", err)
	}

	return tariff.SortChapterNumbers(numbers), nil
}

// LoadChapters loads the given chapters keyed by number; all stored
// chapters when numbers is empty.
func (s *Store) LoadChapters(ctx context.Context, numbers []string) (map[string]*tariff.Chapter, error) {
	if len(numbers) == 0 {
		all, err := s.ListChapters(ctx)
		if err != nil {
			return nil, err
		}
		numbers = all
	}

	chapters := make(map[string]*tariff.Chapter, len(numbers))
	for _, n := range numbers {
		ch, err := s.GetChapter(ctx, n)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		chapters[n] = ch
	}
	return chapters, nil
}
