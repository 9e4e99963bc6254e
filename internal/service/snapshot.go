package service

import (
	"database/sql"
	"fmt"

	"github.com/chuthree/brew-guide/internal/model"
)

// LoadAllRecords materializes the whole journal in ascending time
// order. The statistics engine reads the full log on every
// computation; nothing is filtered in storage.
func LoadAllRecords(db *sql.DB) ([]model.Record, error) {
	rows, err := db.Query(recordSelect + ` ORDER BY r.brewed_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// LoadAllBeans materializes the full inventory.
func LoadAllBeans(db *sql.DB) ([]model.Bean, error) {
	return ListBeans(db, ListBeansFilter{})
}
