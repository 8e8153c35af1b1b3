// Package sqliteindex implements the search index on SQLite. The index is
// derived entirely from state snapshots and can be rebuilt at any time, so
// schema changes just bump the version and force a resync.
package sqliteindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.StoryIndex using SQLite.
type Index struct {
	db     *sql.DB
	dbPath string
}

var _ ports.StoryIndex = (*Index)(nil)

// NewIndex creates a new SQLite index.
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index database under dataDir.
func (idx *Index) Open(dataDir string) error {
	idx.dbPath = filepath.Join(dataDir, "index.db")

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// WAL mode for better concurrency with the TUI and MCP server
	db, err := sql.Open("sqlite3", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS stories (
			story_id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			acceptance_criteria TEXT NOT NULL,
			deleted INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_stories_project ON stories(project_id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := idx.checkSchemaVersion(); err != nil {
		db.Close()
		return err
	}

	return nil
}

// checkSchemaVersion drops indexed rows when the recorded schema version
// does not match. The next Sync repopulates everything.
func (idx *Index) checkSchemaVersion() error {
	var version string
	idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)

	if version != schemaVersion {
		if _, err := idx.db.Exec(`DELETE FROM stories`); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}

	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)
	`, schemaVersion)
	return err
}

// Close closes the database connection.
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Sync replaces the indexed rows with the stories in the snapshot.
func (idx *Index) Sync(state *domain.State) error {
	if state == nil {
		return nil
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin sync: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stories`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stories (story_id, project_id, title, description, acceptance_criteria, deleted)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, story := range state.Stories {
		if story == nil {
			continue
		}
		deleted := 0
		if story.Deleted {
			deleted = 1
		}
		if _, err := stmt.Exec(id, projectOf(state, story), story.Title, story.Description, story.AcceptanceCriteria, deleted); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// projectOf walks the folder chain up to the owning project. Stories whose
// parent chain is broken index under an empty project id.
func projectOf(state *domain.State, story *domain.Story) string {
	folder, ok := state.Folders[story.ParentID]
	if !ok {
		return ""
	}
	return folder.ProjectID
}

// Search returns stories whose title, description or acceptance criteria
// contain the query, case-insensitively. Soft-deleted stories are excluded.
func (idx *Index) Search(query string) ([]ports.IndexHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := idx.db.Query(`
		SELECT story_id, project_id, title, description, acceptance_criteria
		FROM stories
		WHERE deleted = 0
		  AND (title LIKE ? ESCAPE '\'
		   OR description LIKE ? ESCAPE '\'
		   OR acceptance_criteria LIKE ? ESCAPE '\')
		ORDER BY title COLLATE NOCASE
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var hits []ports.IndexHit
	for rows.Next() {
		var hit ports.IndexHit
		var description, criteria string
		if err := rows.Scan(&hit.StoryID, &hit.ProjectID, &hit.Title, &description, &criteria); err != nil {
			return nil, err
		}
		hit.MatchedText = matchedText(query, hit.Title, description, criteria)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// matchedText returns a short excerpt around the first field that matched.
func matchedText(query string, fields ...string) string {
	lower := strings.ToLower(query)
	for _, field := range fields {
		pos := strings.Index(strings.ToLower(field), lower)
		if pos == -1 {
			continue
		}
		start := pos - 30
		if start < 0 {
			start = 0
		}
		end := pos + len(query) + 30
		if end > len(field) {
			end = len(field)
		}
		excerpt := strings.TrimSpace(field[start:end])
		if start > 0 {
			excerpt = "…" + excerpt
		}
		if end < len(field) {
			excerpt = excerpt + "…"
		}
		return excerpt
	}
	return ""
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
