package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS beans (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK(category IN ('espresso', 'filter', 'omni', 'other')),
  state TEXT NOT NULL DEFAULT 'roasted' CHECK(state IN ('green', 'roasted')),
  capacity_g REAL NOT NULL DEFAULT 0 CHECK(capacity_g >= 0),
  remaining_g REAL NOT NULL DEFAULT 0 CHECK(remaining_g >= 0),
  price REAL NOT NULL DEFAULT 0 CHECK(price >= 0),
  roast_date TEXT,
  start_day INTEGER NOT NULL DEFAULT 0 CHECK(start_day >= 0),
  end_day INTEGER NOT NULL DEFAULT 0 CHECK(end_day >= 0),
  is_frozen INTEGER NOT NULL DEFAULT 0,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL CHECK(source IN ('brew', 'quick_decrement', 'capacity_adjustment', 'roasting')),
  bean_id TEXT,
  dose TEXT NOT NULL DEFAULT '',
  amount_g REAL NOT NULL DEFAULT 0,
  method TEXT NOT NULL DEFAULT '',
  rating INTEGER NOT NULL DEFAULT 0 CHECK(rating >= 0 AND rating <= 5),
  notes TEXT NOT NULL DEFAULT '',
  brewed_at DATETIME NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(bean_id) REFERENCES beans(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_records_brewed_at ON records(brewed_at);
CREATE INDEX IF NOT EXISTS idx_records_bean_id ON records(bean_id);
`,
	},
	{
		version: 2,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "bean_category_index",
		sql: `
CREATE INDEX IF NOT EXISTS idx_beans_category ON beans(category);
CREATE INDEX IF NOT EXISTS idx_records_source ON records(source);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
