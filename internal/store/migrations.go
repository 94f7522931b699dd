package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_meta (
	id         INTEGER PRIMARY KEY CHECK(id = 1),
	fetched_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	title      TEXT NOT NULL,
	snippet    TEXT NOT NULL DEFAULT '',
	priority   TEXT NOT NULL DEFAULT 'low',
	category   TEXT NOT NULL DEFAULT '',
	deadline   TEXT NOT NULL DEFAULT '',
	time       TEXT NOT NULL DEFAULT '',
	sender     TEXT NOT NULL DEFAULT '',
	is_group   INTEGER NOT NULL DEFAULT 0 CHECK(is_group IN (0, 1)),
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	reminded   INTEGER NOT NULL DEFAULT 0 CHECK(reminded IN (0, 1)),
	created_at DATETIME NOT NULL,
	links      TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS messages (
	position    INTEGER PRIMARY KEY,
	id          TEXT NOT NULL,
	sender      TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	received_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS seen_tasks (
	id         TEXT PRIMARY KEY,
	first_seen DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL,
	message    TEXT NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_task_id ON notifications(task_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
	{
		// The analyser may repeat an id, so cached tasks are keyed by
		// their position in the snapshot like messages.
		version: 3,
		sql: `
DROP INDEX IF EXISTS idx_tasks_position;
DROP TABLE IF EXISTS tasks;

CREATE TABLE tasks (
	position   INTEGER PRIMARY KEY,
	id         TEXT NOT NULL,
	title      TEXT NOT NULL,
	snippet    TEXT NOT NULL DEFAULT '',
	priority   TEXT NOT NULL DEFAULT 'low',
	category   TEXT NOT NULL DEFAULT '',
	deadline   TEXT NOT NULL DEFAULT '',
	time       TEXT NOT NULL DEFAULT '',
	sender     TEXT NOT NULL DEFAULT '',
	is_group   INTEGER NOT NULL DEFAULT 0 CHECK(is_group IN (0, 1)),
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	reminded   INTEGER NOT NULL DEFAULT 0 CHECK(reminded IN (0, 1)),
	created_at DATETIME NOT NULL,
	links      TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_tasks_id ON tasks(id);

DELETE FROM snapshot_meta;

INSERT INTO schema_version (version) VALUES (3);
`,
	},
}
