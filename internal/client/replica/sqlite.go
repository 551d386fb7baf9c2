package replica

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS replica_entries (
	session            TEXT    NOT NULL,
	target_id          TEXT    NOT NULL,
	position           INTEGER NOT NULL,
	display_name       TEXT    NOT NULL DEFAULT '',
	email              TEXT    NOT NULL DEFAULT '',
	shared_skill_names TEXT    NOT NULL DEFAULT '[]',
	created_at         TEXT    NOT NULL DEFAULT '',
	confirmed          INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (session, target_id)
)`

// SQLiteMedium persists one session's replica in a SQLite file so a
// restarted client, or a second client on the same file, sees the same
// connections.
type SQLiteMedium struct {
	db      *sql.DB
	session string
}

func OpenSQLite(ctx context.Context, path, session string) (*SQLiteMedium, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("replica path is required")
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, fmt.Errorf("replica session is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create replica schema: %w", err)
	}

	return &SQLiteMedium{db: db, session: session}, nil
}

func (m *SQLiteMedium) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *SQLiteMedium) Load(ctx context.Context) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT target_id, display_name, email, shared_skill_names, created_at, confirmed
		 FROM replica_entries
		 WHERE session = ?
		 ORDER BY position ASC, rowid ASC`,
		m.session,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var (
			rawID, names, createdAt string
			confirmed               int
			e                       Entry
		)
		if err := rows.Scan(&rawID, &e.DisplayName, &e.Email, &names, &createdAt, &confirmed); err != nil {
			return nil, err
		}
		if e.TargetID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("replica row target_id %q: %w", rawID, err)
		}
		if err := json.Unmarshal([]byte(names), &e.SharedSkillNames); err != nil {
			return nil, fmt.Errorf("replica row shared_skill_names: %w", err)
		}
		if e.SharedSkillNames == nil {
			e.SharedSkillNames = []string{}
		}
		if createdAt != "" {
			if e.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
				return nil, fmt.Errorf("replica row created_at: %w", err)
			}
		}
		e.Confirmed = confirmed != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Store upserts entries. A new row is positioned after every existing row
// of the session; an existing row keeps its position.
func (m *SQLiteMedium) Store(ctx context.Context, entries []Entry) error {
	return m.write(ctx, entries, false)
}

// Replace upserts entries at positions 0..n-1 in slice order. Rows of the
// session not in entries are moved after them, keeping their relative order.
func (m *SQLiteMedium) Replace(ctx context.Context, entries []Entry) error {
	return m.write(ctx, entries, true)
}

func (m *SQLiteMedium) write(ctx context.Context, entries []Entry, ordered bool) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	if ordered {
		// Shift every row past the slots the new order occupies. Positions
		// are not unique, so the shift cannot collide.
		if _, err := tx.ExecContext(ctx,
			`UPDATE replica_entries SET position = position + ? WHERE session = ?`,
			len(entries), m.session,
		); err != nil {
			return err
		}
	} else if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM replica_entries WHERE session = ?`,
		m.session,
	).Scan(&next); err != nil {
		return err
	}

	upsert := `INSERT INTO replica_entries
		    (session, target_id, position, display_name, email, shared_skill_names, created_at, confirmed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (session, target_id) DO UPDATE SET
		    display_name = excluded.display_name,
		    email = excluded.email,
		    shared_skill_names = excluded.shared_skill_names,
		    created_at = excluded.created_at,
		    confirmed = excluded.confirmed`
	if ordered {
		upsert += `,
		    position = excluded.position`
	}
	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		names := e.SharedSkillNames
		if names == nil {
			names = []string{}
		}
		b, err := json.Marshal(names)
		if err != nil {
			return err
		}
		createdAt := ""
		if !e.CreatedAt.IsZero() {
			createdAt = e.CreatedAt.UTC().Format(timeFormat)
		}
		confirmed := 0
		if e.Confirmed {
			confirmed = 1
		}
		if _, err := stmt.ExecContext(ctx,
			m.session, e.TargetID.String(), next, e.DisplayName, e.Email, string(b), createdAt, confirmed,
		); err != nil {
			return err
		}
		next++
	}

	return tx.Commit()
}
