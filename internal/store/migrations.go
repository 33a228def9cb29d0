package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create threads",
		SQL: `
			CREATE TABLE threads (
				sender      TEXT PRIMARY KEY,
				thread_id   TEXT NOT NULL,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_threads_created ON threads (created_at);
		`,
	},
}
