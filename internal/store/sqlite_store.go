package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"pathlang/internal/language"
)

// ErrNotFound is returned when a lookup matches no stored file.
var ErrNotFound = errors.New("file not found")

// FileRecord is one classified file as persisted by a scan.
type FileRecord struct {
	RelPath     string            `json:"path"`
	Language    language.Language `json:"language"`
	Extension   string            `json:"extension"`
	SizeBytes   int64             `json:"size_bytes"`
	MTimeUnix   int64             `json:"mtime_unix"`
	ScannedUnix int64             `json:"scanned_unix"`
}

// LanguageCount is the stored file count for one language.
type LanguageCount struct {
	Language language.Language `json:"language"`
	Files    int64             `json:"files"`
	Bytes    int64             `json:"bytes"`
}

type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return err
	}

	schema := `
CREATE TABLE IF NOT EXISTS files (
  rel_path TEXT PRIMARY KEY,
  language TEXT NOT NULL,
  extension TEXT NOT NULL,
  size_bytes INTEGER NOT NULL DEFAULT 0,
  mtime_unix INTEGER NOT NULL DEFAULT 0,
  scanned_unix INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

const upsertFileSQL = `INSERT INTO files(rel_path, language, extension, size_bytes, mtime_unix, scanned_unix)
 VALUES(?, ?, ?, ?, ?, ?)
 ON CONFLICT(rel_path) DO UPDATE SET
   language=excluded.language,
   extension=excluded.extension,
   size_bytes=excluded.size_bytes,
   mtime_unix=excluded.mtime_unix,
   scanned_unix=excluded.scanned_unix`

func (s *SQLiteStore) UpsertFile(ctx context.Context, rec FileRecord) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rec.RelPath) == "" {
		return errors.New("file rel_path is required")
	}
	_, err = db.ExecContext(ctx, upsertFileSQL, recordArgs(rec)...)
	return err
}

// ReplaceScan swaps the stored file set for records in one transaction.
func (s *SQLiteStore) ReplaceScan(ctx context.Context, records []FileRecord) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("clear files: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertFileSQL)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if strings.TrimSpace(rec.RelPath) == "" {
			return errors.New("file rel_path is required")
		}
		if _, err := stmt.ExecContext(ctx, recordArgs(rec)...); err != nil {
			return fmt.Errorf("insert %s: %w", rec.RelPath, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetFile(ctx context.Context, relPath string) (FileRecord, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return FileRecord{}, err
	}

	row := db.QueryRowContext(
		ctx,
		`SELECT rel_path, language, extension, size_bytes, mtime_unix, scanned_unix
		 FROM files WHERE rel_path = ?`,
		relPath,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, relPath)
	}
	return rec, err
}

// ListFiles pages through stored files ordered by path. A nil lang lists
// every language. The second return value is the unpaged total.
func (s *SQLiteStore) ListFiles(ctx context.Context, lang *language.Language, limit, offset int) ([]FileRecord, int64, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := make([]any, 0, 3)
	if lang != nil {
		where = " WHERE language = ?"
		args = append(args, lang.String())
	}

	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.QueryContext(
		ctx,
		`SELECT rel_path, language, extension, size_bytes, mtime_unix, scanned_unix FROM files`+where+
			` ORDER BY rel_path LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]FileRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// LanguageCounts returns per-language totals ordered by file count
// descending, then by language name.
func (s *SQLiteStore) LanguageCounts(ctx context.Context) ([]LanguageCount, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(
		ctx,
		`SELECT language, COUNT(*), COALESCE(SUM(size_bytes), 0) FROM files
		 GROUP BY language ORDER BY COUNT(*) DESC, language ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]LanguageCount, 0, 16)
	for rows.Next() {
		var name string
		var count LanguageCount
		if err := rows.Scan(&name, &count.Files, &count.Bytes); err != nil {
			return nil, err
		}
		count.Language = parseStoredLanguage(name)
		out = append(out, count)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) ensureDB(ctx context.Context) (*sql.DB, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("sqlite db not initialized")
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (FileRecord, error) {
	var rec FileRecord
	var name string
	if err := row.Scan(&rec.RelPath, &name, &rec.Extension, &rec.SizeBytes, &rec.MTimeUnix, &rec.ScannedUnix); err != nil {
		return FileRecord{}, err
	}
	rec.Language = parseStoredLanguage(name)
	return rec, nil
}

func recordArgs(rec FileRecord) []any {
	return []any{
		rec.RelPath,
		rec.Language.String(),
		defaultIfEmpty(rec.Extension, rec.Language.Extension()),
		rec.SizeBytes,
		rec.MTimeUnix,
		rec.ScannedUnix,
	}
}

// parseStoredLanguage maps a stored name back to a label. Rows written by a
// build with labels this build lacks read back as Unknown.
func parseStoredLanguage(name string) language.Language {
	l, err := language.Parse(name)
	if err != nil {
		return language.Unknown
	}
	return l
}

func defaultIfEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
