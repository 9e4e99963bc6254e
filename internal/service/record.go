package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chuthree/brew-guide/internal/model"
	"github.com/chuthree/brew-guide/internal/stats"
)

type LogBrewInput struct {
	BeanID   string
	Dose     string
	Method   string
	Rating   int
	Notes    string
	BrewedAt time.Time
}

// LogBrew appends a brew record and, when the dose carries a numeric
// amount, decrements the linked bean's remaining stock.
func LogBrew(db *sql.DB, in LogBrewInput) (string, error) {
	if strings.TrimSpace(in.Dose) == "" && strings.TrimSpace(in.Notes) == "" {
		return "", fmt.Errorf("a brew needs a dose or notes")
	}
	if err := validateRating(in.Rating); err != nil {
		return "", err
	}
	if in.BrewedAt.IsZero() {
		in.BrewedAt = time.Now()
	}

	var decrement float64
	if amount, ok := stats.ParseDoseAmount(in.Dose); ok {
		decrement = amount
	}
	return appendRecord(db, model.Record{
		Source:   model.SourceBrew,
		BeanID:   strings.TrimSpace(in.BeanID),
		Dose:     strings.TrimSpace(in.Dose),
		Method:   strings.TrimSpace(in.Method),
		Rating:   in.Rating,
		Notes:    strings.TrimSpace(in.Notes),
		BrewedAt: in.BrewedAt,
	}, decrement)
}

type QuickDecrementInput struct {
	BeanID  string
	AmountG float64
	At      time.Time
}

// QuickDecrement appends a one-tap stock decrement with an explicit
// gram amount.
func QuickDecrement(db *sql.DB, in QuickDecrementInput) (string, error) {
	if strings.TrimSpace(in.BeanID) == "" {
		return "", fmt.Errorf("bean id is required")
	}
	if in.AmountG <= 0 {
		return "", fmt.Errorf("amount must be > 0")
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}
	return appendRecord(db, model.Record{
		Source:   model.SourceQuickDecrement,
		BeanID:   strings.TrimSpace(in.BeanID),
		AmountG:  in.AmountG,
		BrewedAt: in.At,
	}, in.AmountG)
}

type AdjustRemainingInput struct {
	BeanID        string
	NewRemainingG float64
	At            time.Time
}

// AdjustRemaining corrects a bean's remaining stock. The correction is
// journaled as a capacity adjustment, which statistics ignore.
func AdjustRemaining(db *sql.DB, in AdjustRemainingInput) (string, error) {
	if strings.TrimSpace(in.BeanID) == "" {
		return "", fmt.Errorf("bean id is required")
	}
	if err := validateNonNegativeFloat("remaining", in.NewRemainingG); err != nil {
		return "", err
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}

	bean, err := GetBean(db, in.BeanID)
	if err != nil {
		return "", err
	}
	if in.NewRemainingG > bean.CapacityG {
		return "", fmt.Errorf("remaining (%.1fg) cannot exceed capacity (%.1fg)", in.NewRemainingG, bean.CapacityG)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin adjustment tx: %w", err)
	}
	id := uuid.NewString()
	delta := in.NewRemainingG - bean.RemainingG
	if err := insertRecordTx(tx, model.Record{
		ID:       id,
		Source:   model.SourceCapacityAdjustment,
		BeanID:   in.BeanID,
		AmountG:  delta,
		BrewedAt: in.At,
	}); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if _, err := tx.Exec(`UPDATE beans SET remaining_g = ?, updated_at = ? WHERE id = ?`,
		in.NewRemainingG, time.Now().Format(time.RFC3339), in.BeanID); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("adjust bean %s: %w", in.BeanID, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit adjustment: %w", err)
	}
	return id, nil
}

type LogRoastInput struct {
	GreenBeanID string
	GreenUsedG  float64
	RoastedG    float64
	// Name of the derived roasted bag; defaults to the green bean's.
	Name     string
	Category string
	At       time.Time
}

// LogRoast journals a roasting session: green stock goes down by
// GreenUsedG and a new roasted bag of RoastedG appears, priced at the
// green beans' proportional cost. The roasting event itself is what
// statistics count, against the green bean's price.
func LogRoast(db *sql.DB, in LogRoastInput) (string, string, error) {
	if strings.TrimSpace(in.GreenBeanID) == "" {
		return "", "", fmt.Errorf("green bean id is required")
	}
	if in.GreenUsedG <= 0 {
		return "", "", fmt.Errorf("green amount must be > 0")
	}
	if in.RoastedG <= 0 {
		return "", "", fmt.Errorf("roasted amount must be > 0")
	}
	if in.RoastedG > in.GreenUsedG {
		return "", "", fmt.Errorf("roasted output (%.1fg) cannot exceed green input (%.1fg)", in.RoastedG, in.GreenUsedG)
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}

	green, err := GetBean(db, in.GreenBeanID)
	if err != nil {
		return "", "", err
	}
	if green.State != model.BeanStateGreen {
		return "", "", fmt.Errorf("bean %s is not green stock", in.GreenBeanID)
	}
	if in.GreenUsedG > green.RemainingG {
		return "", "", fmt.Errorf("only %.1fg green remaining, cannot roast %.1fg", green.RemainingG, in.GreenUsedG)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = green.Name
	}
	category := green.Category
	if strings.TrimSpace(in.Category) != "" {
		parsed, ok := model.ParseCategory(strings.ToLower(strings.TrimSpace(in.Category)))
		if !ok {
			return "", "", fmt.Errorf("invalid category %q", in.Category)
		}
		category = parsed
	}
	var price float64
	if green.Price > 0 && green.CapacityG > 0 {
		price = in.GreenUsedG * green.Price / green.CapacityG
	}

	tx, err := db.Begin()
	if err != nil {
		return "", "", fmt.Errorf("begin roast tx: %w", err)
	}
	recordID := uuid.NewString()
	if err := insertRecordTx(tx, model.Record{
		ID:       recordID,
		Source:   model.SourceRoasting,
		BeanID:   in.GreenBeanID,
		AmountG:  in.GreenUsedG,
		BrewedAt: in.At,
	}); err != nil {
		_ = tx.Rollback()
		return "", "", err
	}
	if _, err := tx.Exec(`UPDATE beans SET remaining_g = remaining_g - ?, updated_at = ? WHERE id = ?`,
		in.GreenUsedG, time.Now().Format(time.RFC3339), in.GreenBeanID); err != nil {
		_ = tx.Rollback()
		return "", "", fmt.Errorf("decrement green bean %s: %w", in.GreenBeanID, err)
	}

	roastedID := uuid.NewString()
	now := time.Now().Format(time.RFC3339)
	if _, err := tx.Exec(`
INSERT INTO beans(id, name, category, state, capacity_g, remaining_g, price, roast_date, start_day, end_day, is_frozen, notes, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, '', ?, ?)
`, roastedID, name, string(category), string(model.BeanStateRoasted), in.RoastedG, in.RoastedG, price,
		in.At.Format("2006-01-02"), green.StartDay, green.EndDay, now, now); err != nil {
		_ = tx.Rollback()
		return "", "", fmt.Errorf("insert roasted bean: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", "", fmt.Errorf("commit roast: %w", err)
	}
	return recordID, roastedID, nil
}

type ListRecordsFilter struct {
	FromDate string
	ToDate   string
	BeanID   string
	Source   string
	Limit    int
}

func ListRecords(db *sql.DB, f ListRecordsFilter) ([]model.Record, error) {
	query := recordSelect + ` WHERE 1=1`
	args := make([]any, 0)
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDateStart(f.FromDate)
		if err != nil {
			return nil, err
		}
		query += ` AND r.brewed_at >= ?`
		args = append(args, from)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDateEndExclusive(f.ToDate)
		if err != nil {
			return nil, err
		}
		query += ` AND r.brewed_at < ?`
		args = append(args, to)
	}
	if strings.TrimSpace(f.BeanID) != "" {
		query += ` AND r.bean_id = ?`
		args = append(args, strings.TrimSpace(f.BeanID))
	}
	if strings.TrimSpace(f.Source) != "" {
		query += ` AND r.source = ?`
		args = append(args, strings.TrimSpace(f.Source))
	}
	query += ` ORDER BY r.brewed_at DESC`
	if f.Limit <= 0 {
		f.Limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, f.Limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func DeleteRecord(db *sql.DB, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("record id is required")
	}
	res, err := db.Exec(`DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for record %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// appendRecord inserts a consumption record and decrements the linked
// bean's stock, clamped at zero, in one transaction.
func appendRecord(db *sql.DB, rec model.Record, decrementG float64) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin record tx: %w", err)
	}
	if err := insertRecordTx(tx, rec); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if rec.BeanID != "" && decrementG > 0 {
		if _, err := tx.Exec(`
UPDATE beans SET remaining_g = MAX(0, remaining_g - ?), updated_at = ? WHERE id = ?`,
			decrementG, time.Now().Format(time.RFC3339), rec.BeanID); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("decrement bean %s: %w", rec.BeanID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit record: %w", err)
	}
	return rec.ID, nil
}

func insertRecordTx(tx *sql.Tx, rec model.Record) error {
	var beanID any
	if strings.TrimSpace(rec.BeanID) != "" {
		beanID = rec.BeanID
	}
	_, err := tx.Exec(`
INSERT INTO records(id, source, bean_id, dose, amount_g, method, rating, notes, brewed_at, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.ID, string(rec.Source), beanID, rec.Dose, rec.AmountG, rec.Method, rec.Rating, rec.Notes,
		rec.BrewedAt.Format(time.RFC3339), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

const recordSelect = `
SELECT r.id, r.source, IFNULL(r.bean_id, ''), r.dose, r.amount_g, r.method, r.rating, r.notes, IFNULL(b.name, ''), r.brewed_at, r.created_at
FROM records r
LEFT JOIN beans b ON b.id = r.bean_id`

func scanRecords(rows *sql.Rows) ([]model.Record, error) {
	records := make([]model.Record, 0)
	for rows.Next() {
		var r model.Record
		var source, brewedRaw, createdRaw string
		if err := rows.Scan(&r.ID, &source, &r.BeanID, &r.Dose, &r.AmountG, &r.Method, &r.Rating, &r.Notes, &r.BeanName, &brewedRaw, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Source = model.RecordSource(source)
		brewed, err := time.Parse(time.RFC3339, brewedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse brewed_at for record %s: %w", r.ID, err)
		}
		r.BrewedAt = brewed
		created, err := time.Parse(time.RFC3339, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for record %s: %w", r.ID, err)
		}
		r.CreatedAt = created
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}
