package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/whatsboard/internal/model"
)

// deadlineLayout is how deadlines are stored: a calendar day, no zone.
const deadlineLayout = "2006-01-02"

// SQLiteCache keeps the last good snapshot on disk so the dashboard can
// start with stale data before the first refresh completes. It also
// remembers which task IDs have been seen, to raise notifications for
// new ones.
type SQLiteCache struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteCache opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and
	// serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db, now: time.Now}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *SQLiteCache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveSnapshot replaces the cached snapshot with snap in one transaction.
// Tasks never seen before get a notification, except on the very first
// save, which only seeds the seen set. The created notifications are
// returned.
func (c *SQLiteCache) SaveSnapshot(
	ctx context.Context,
	snap model.Snapshot,
) ([]model.Notification, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM tasks", "DELETE FROM messages"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("clearing snapshot: %w", err)
		}
	}

	if err := insertTasks(ctx, tx, snap.Tasks); err != nil {
		return nil, err
	}
	if err := insertMessages(ctx, tx, snap.Messages); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO snapshot_meta (id, fetched_at) VALUES (1, ?)",
		snap.FetchedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("writing snapshot time: %w", err)
	}

	created, err := c.recordSeen(ctx, tx, snap.Tasks)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return created, nil
}

func insertTasks(ctx context.Context, tx *sqlx.Tx, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	const query = `
		INSERT INTO tasks (
			id, position, title, snippet, priority, category,
			deadline, time, sender, is_group, completed, reminded,
			created_at, links
		) VALUES (
			?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?,
			?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		links, err := json.Marshal(t.Links)
		if err != nil {
			return fmt.Errorf("marshaling links for task %s: %w", t.ID, err)
		}

		deadline := ""
		if t.HasDeadline() {
			deadline = t.Deadline.Format(deadlineLayout)
		}

		_, err = stmt.ExecContext(ctx,
			t.ID, i, t.Title, t.Snippet, string(t.Priority), t.Category,
			deadline, t.Time, t.From, boolToInt(t.IsGroup), boolToInt(t.Completed), boolToInt(t.Reminded),
			t.CreatedAt.UTC(), string(links),
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertMessages(ctx context.Context, tx *sqlx.Tx, msgs []model.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO messages (position, id, sender, body, received_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range msgs {
		if _, err := stmt.ExecContext(ctx, i, m.ID, m.From, m.Body, m.ReceivedAt.UTC()); err != nil {
			return fmt.Errorf("inserting message %s: %w", m.ID, err)
		}
	}
	return nil
}

// recordSeen marks task IDs as seen and creates notifications for the
// ones that are new.
func (c *SQLiteCache) recordSeen(
	ctx context.Context,
	tx *sqlx.Tx,
	tasks []model.Task,
) ([]model.Notification, error) {
	var seenCount int
	if err := tx.GetContext(ctx, &seenCount, "SELECT COUNT(*) FROM seen_tasks"); err != nil {
		return nil, fmt.Errorf("counting seen tasks: %w", err)
	}
	seeding := seenCount == 0

	now := c.now().UTC()
	var created []model.Notification
	for _, t := range tasks {
		res, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO seen_tasks (id, first_seen) VALUES (?, ?)",
			t.ID, now,
		)
		if err != nil {
			return nil, fmt.Errorf("recording seen task %s: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 || seeding {
			continue
		}

		note := model.Notification{
			ID:        uuid.New().String(),
			TaskID:    t.ID,
			Message:   notificationText(t),
			CreatedAt: now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notifications (id, task_id, message, read, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			note.ID, note.TaskID, note.Message, boolToInt(note.Read), note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("creating notification: %w", err)
		}
		created = append(created, note)
	}
	return created, nil
}

func notificationText(t model.Task) string {
	if t.From != "" {
		return fmt.Sprintf("New %s task from %s: %s", t.Priority.Label(), t.From, t.Title)
	}
	return fmt.Sprintf("New %s task: %s", t.Priority.Label(), t.Title)
}

// LoadSnapshot returns the cached snapshot. ok is false when nothing has
// been cached yet.
func (c *SQLiteCache) LoadSnapshot(ctx context.Context) (snap model.Snapshot, ok bool, err error) {
	var fetchedAt time.Time
	err = c.db.GetContext(ctx, &fetchedAt, "SELECT fetched_at FROM snapshot_meta WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("reading snapshot time: %w", err)
	}
	snap.FetchedAt = fetchedAt

	rows, err := c.db.QueryxContext(ctx, `
		SELECT id, title, snippet, priority, category, deadline, time,
		       sender, is_group, completed, reminded, created_at, links
		FROM tasks ORDER BY position`)
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("querying cached tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return model.Snapshot{}, false, err
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return model.Snapshot{}, false, err
	}

	msgRows, err := c.db.QueryxContext(ctx,
		"SELECT id, sender, body, received_at FROM messages ORDER BY position")
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("querying cached messages: %w", err)
	}
	defer msgRows.Close()

	for msgRows.Next() {
		var m model.Message
		if err := msgRows.Scan(&m.ID, &m.From, &m.Body, &m.ReceivedAt); err != nil {
			return model.Snapshot{}, false, fmt.Errorf("scanning message row: %w", err)
		}
		snap.Messages = append(snap.Messages, m)
	}

	return snap, true, msgRows.Err()
}

// UnreadNotifications returns notifications not yet read, newest first.
func (c *SQLiteCache) UnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT id, task_id, message, read, created_at FROM notifications WHERE read = 0 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notes []model.Notification
	for rows.Next() {
		var (
			n    model.Notification
			read int
		)
		if err := rows.Scan(&n.ID, &n.TaskID, &n.Message, &read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = read != 0
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// MarkTaskNotificationsRead marks every notification for taskID as read.
func (c *SQLiteCache) MarkTaskNotificationsRead(ctx context.Context, taskID string) error {
	_, err := c.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE task_id = ? AND read = 0", taskID,
	)
	if err != nil {
		return fmt.Errorf("marking notifications for %s as read: %w", taskID, err)
	}
	return nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task      model.Task
		priority  string
		deadline  string
		isGroup   int
		completed int
		reminded  int
		links     string
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Snippet, &priority, &task.Category,
		&deadline, &task.Time, &task.From, &isGroup, &completed, &reminded,
		&task.CreatedAt, &links,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Priority = model.ParsePriority(priority)
	task.IsGroup = isGroup != 0
	task.Completed = completed != 0
	task.Reminded = reminded != 0

	if deadline != "" {
		d, err := time.ParseInLocation(deadlineLayout, deadline, time.Local)
		if err != nil {
			return model.Task{}, fmt.Errorf("parsing deadline %q: %w", deadline, err)
		}
		task.Deadline = d
	}

	if links != "" {
		if err := json.Unmarshal([]byte(links), &task.Links); err != nil {
			return model.Task{}, fmt.Errorf("unmarshaling links: %w", err)
		}
	}

	return task, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
