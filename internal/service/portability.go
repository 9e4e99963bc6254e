package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chuthree/brew-guide/internal/model"
)

type ExportBean struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	State      string  `json:"state"`
	CapacityG  float64 `json:"capacity_g"`
	RemainingG float64 `json:"remaining_g"`
	Price      float64 `json:"price"`
	RoastDate  string  `json:"roast_date,omitempty"`
	StartDay   int     `json:"start_day,omitempty"`
	EndDay     int     `json:"end_day,omitempty"`
	IsFrozen   bool    `json:"is_frozen,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type ExportRecord struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	BeanID   string  `json:"bean_id,omitempty"`
	Dose     string  `json:"dose,omitempty"`
	AmountG  float64 `json:"amount_g,omitempty"`
	Method   string  `json:"method,omitempty"`
	Rating   int     `json:"rating,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	BrewedAt string  `json:"brewed_at"`
}

type ExportData struct {
	ExportedAt string         `json:"exported_at"`
	Beans      []ExportBean   `json:"beans"`
	Records    []ExportRecord `json:"records"`
}

type ImportReport struct {
	BeansInserted   int `json:"beans_inserted"`
	BeansSkipped    int `json:"beans_skipped"`
	RecordsInserted int `json:"records_inserted"`
	RecordsSkipped  int `json:"records_skipped"`
}

func ExportDataSnapshot(db *sql.DB) (*ExportData, error) {
	out := &ExportData{ExportedAt: time.Now().Format(time.RFC3339)}

	beans, err := LoadAllBeans(db)
	if err != nil {
		return nil, fmt.Errorf("export beans: %w", err)
	}
	for _, b := range beans {
		out.Beans = append(out.Beans, ExportBean{
			ID:         b.ID,
			Name:       b.Name,
			Category:   string(b.Category),
			State:      string(b.State),
			CapacityG:  b.CapacityG,
			RemainingG: b.RemainingG,
			Price:      b.Price,
			RoastDate:  b.RoastDate,
			StartDay:   b.StartDay,
			EndDay:     b.EndDay,
			IsFrozen:   b.IsFrozen,
			Notes:      b.Notes,
			CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		})
	}

	records, err := LoadAllRecords(db)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}
	for _, r := range records {
		out.Records = append(out.Records, ExportRecord{
			ID:       r.ID,
			Source:   string(r.Source),
			BeanID:   r.BeanID,
			Dose:     r.Dose,
			AmountG:  r.AmountG,
			Method:   r.Method,
			Rating:   r.Rating,
			Notes:    r.Notes,
			BrewedAt: r.BrewedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ImportDataSnapshot inserts exported beans and records, skipping ids
// that already exist.
func ImportDataSnapshot(db *sql.DB, data *ExportData) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, fmt.Errorf("nothing to import")
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	for _, b := range data.Beans {
		if _, ok := model.ParseCategory(b.Category); !ok {
			_ = tx.Rollback()
			return report, fmt.Errorf("imported bean %q has invalid category %q", b.Name, b.Category)
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		createdAt := b.CreatedAt
		if _, err := time.Parse(time.RFC3339, createdAt); err != nil {
			createdAt = now
		}
		state := b.State
		if _, ok := model.ParseBeanState(state); !ok {
			state = string(model.BeanStateRoasted)
		}
		res, err := tx.Exec(`
INSERT OR IGNORE INTO beans(id, name, category, state, capacity_g, remaining_g, price, roast_date, start_day, end_day, is_frozen, notes, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, b.ID, b.Name, b.Category, state, b.CapacityG, b.RemainingG, b.Price,
			nullableString(b.RoastDate), b.StartDay, b.EndDay, boolToInt(b.IsFrozen), b.Notes, createdAt, now)
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("import bean %q: %w", b.Name, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			report.BeansInserted++
		} else {
			report.BeansSkipped++
		}
	}

	for _, r := range data.Records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, err := time.Parse(time.RFC3339, r.BrewedAt); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("imported record %s has invalid brewed_at %q", r.ID, r.BrewedAt)
		}
		var beanID any
		if strings.TrimSpace(r.BeanID) != "" {
			beanID = r.BeanID
		}
		res, err := tx.Exec(`
INSERT OR IGNORE INTO records(id, source, bean_id, dose, amount_g, method, rating, notes, brewed_at, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, r.ID, r.Source, beanID, r.Dose, r.AmountG, r.Method, r.Rating, r.Notes, r.BrewedAt, now)
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("import record %s: %w", r.ID, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			report.RecordsInserted++
		} else {
			report.RecordsSkipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import: %w", err)
	}
	return report, nil
}
