package notes

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"
)

// Match is one indexed line that matched a search.
type Match struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Hits   int    `json:"hits"`
}

// Document is an indexed notes file.
type Document struct {
	FileID    string
	Name      string
	Lines     []string
	IndexedAt time.Time
}

// ErrNoDocument is returned when no matching document is indexed.
var ErrNoDocument = errors.New("no notes indexed")

// Index stores notes line by line in DuckDB for keyword search.
type Index struct {
	db     *sql.DB
	logger *slog.Logger

	mu sync.Mutex // serialises document replacement and removal
}

// OpenIndex opens (or creates) the index at path. An empty path keeps the
// index in memory.
func OpenIndex(path string, logger *slog.Logger) (*Index, error) {
	connector, err := duckdb.NewConnector(path, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating duckdb connector: %w", err)
	}

	db := sql.OpenDB(connector)
	// An in-memory database lives per connection; keep a single one.
	db.SetMaxOpenConns(1)

	schema := []string{
		`CREATE SEQUENCE IF NOT EXISTS document_seq`,
		`CREATE TABLE IF NOT EXISTS documents (
			file_id    VARCHAR PRIMARY KEY,
			seq        BIGINT NOT NULL DEFAULT nextval('document_seq'),
			name       VARCHAR NOT NULL,
			indexed_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS note_lines (
			file_id VARCHAR NOT NULL,
			line_no INTEGER NOT NULL,
			text    VARCHAR NOT NULL,
			lower   VARCHAR NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating notes schema: %w", err)
		}
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Index{db: db, logger: logger}, nil
}

// AddDocument indexes text under fileID, replacing any earlier version, and
// returns the number of lines stored.
func (ix *Index) AddDocument(ctx context.Context, fileID, name, text string) (int, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return 0, ErrNoText
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM note_lines WHERE file_id = ?`, fileID); err != nil {
		return 0, fmt.Errorf("clearing lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE file_id = ?`, fileID); err != nil {
		return 0, fmt.Errorf("clearing document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (file_id, name, indexed_at) VALUES (?, ?, ?)`,
		fileID, name, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO note_lines (file_id, line_no, text, lower) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, fileID, i+1, line, strings.ToLower(line)); err != nil {
			return 0, fmt.Errorf("inserting line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	ix.logger.Debug("notes indexed", "file_id", fileID, "name", name, "lines", len(lines))
	return len(lines), nil
}

// Search returns up to limit lines containing any of the query's terms,
// ranked by the number of distinct terms they contain.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	var (
		hitExpr []string
		where   []string
		args    []any
	)
	for _, term := range terms {
		hitExpr = append(hitExpr, "CASE WHEN contains(l.lower, ?) THEN 1 ELSE 0 END")
		args = append(args, term)
	}
	for _, term := range terms {
		where = append(where, "contains(l.lower, ?)")
		args = append(args, term)
	}
	args = append(args, limit)

	q := fmt.Sprintf(`
		SELECT l.file_id, d.name, l.line_no, l.text, (%s) AS hits
		FROM note_lines l JOIN documents d ON d.file_id = l.file_id
		WHERE %s
		ORDER BY hits DESC, d.seq DESC, l.line_no ASC
		LIMIT ?`,
		strings.Join(hitExpr, " + "), strings.Join(where, " OR "))

	rows, err := ix.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.FileID, &m.Name, &m.Line, &m.Text, &m.Hits); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Document returns an indexed document with its lines in order.
func (ix *Index) Document(ctx context.Context, fileID string) (*Document, error) {
	doc := &Document{FileID: fileID}
	err := ix.db.QueryRowContext(ctx,
		`SELECT name, indexed_at FROM documents WHERE file_id = ?`, fileID).Scan(&doc.Name, &doc.IndexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT text FROM note_lines WHERE file_id = ? ORDER BY line_no`, fileID)
	if err != nil {
		return nil, fmt.Errorf("loading lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, rows.Err()
}

// Latest returns the most recently indexed document.
func (ix *Index) Latest(ctx context.Context) (*Document, error) {
	var fileID string
	err := ix.db.QueryRowContext(ctx,
		`SELECT file_id FROM documents ORDER BY seq DESC LIMIT 1`).Scan(&fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest document: %w", err)
	}
	return ix.Document(ctx, fileID)
}

// Remove drops a document from the index. Unknown IDs are ignored.
func (ix *Index) Remove(ctx context.Context, fileID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.db.ExecContext(ctx, `DELETE FROM note_lines WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("removing lines: %w", err)
	}
	if _, err := ix.db.ExecContext(ctx, `DELETE FROM documents WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("removing document: %w", err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}
