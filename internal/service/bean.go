package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chuthree/brew-guide/internal/model"
)

type CreateBeanInput struct {
	Name      string
	Category  string
	State     string
	CapacityG float64
	// RemainingG below zero means "same as capacity" (a fresh bag).
	RemainingG float64
	Price      float64
	RoastDate  string
	StartDay   int
	EndDay     int
	IsFrozen   bool
	Notes      string
}

type ListBeansFilter struct {
	Category string
	State    string
	// InStock keeps only beans with remaining grams.
	InStock bool
}

func CreateBean(db *sql.DB, in CreateBeanInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", fmt.Errorf("bean name is required")
	}
	category, ok := model.ParseCategory(strings.ToLower(strings.TrimSpace(in.Category)))
	if !ok {
		return "", fmt.Errorf("invalid category %q (use espresso|filter|omni|other)", in.Category)
	}
	state := model.BeanStateRoasted
	if strings.TrimSpace(in.State) != "" {
		state, ok = model.ParseBeanState(strings.ToLower(strings.TrimSpace(in.State)))
		if !ok {
			return "", fmt.Errorf("invalid state %q (use green|roasted)", in.State)
		}
	}
	if err := validateNonNegativeFloat("capacity", in.CapacityG); err != nil {
		return "", err
	}
	if in.RemainingG < 0 {
		in.RemainingG = in.CapacityG
	}
	if in.RemainingG > in.CapacityG {
		return "", fmt.Errorf("remaining (%.1fg) cannot exceed capacity (%.1fg)", in.RemainingG, in.CapacityG)
	}
	if err := validateNonNegativeFloat("price", in.Price); err != nil {
		return "", err
	}
	if err := validateDateString("roast date", in.RoastDate); err != nil {
		return "", err
	}
	if in.StartDay < 0 || in.EndDay < 0 {
		return "", fmt.Errorf("flavor window days must be >= 0")
	}
	if in.StartDay > 0 && in.EndDay > 0 && in.EndDay < in.StartDay {
		return "", fmt.Errorf("flavor window end day must be >= start day")
	}

	id := uuid.NewString()
	now := time.Now().Format(time.RFC3339)
	_, err := db.Exec(`
INSERT INTO beans(id, name, category, state, capacity_g, remaining_g, price, roast_date, start_day, end_day, is_frozen, notes, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, id, in.Name, string(category), string(state), in.CapacityG, in.RemainingG, in.Price,
		nullableString(in.RoastDate), in.StartDay, in.EndDay, boolToInt(in.IsFrozen), strings.TrimSpace(in.Notes), now, now)
	if err != nil {
		return "", fmt.Errorf("insert bean: %w", err)
	}
	return id, nil
}

func GetBean(db *sql.DB, id string) (*model.Bean, error) {
	row := db.QueryRow(beanSelect+` WHERE id = ?`, id)
	bean, err := scanBean(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bean %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get bean %s: %w", id, err)
	}
	return bean, nil
}

func ListBeans(db *sql.DB, f ListBeansFilter) ([]model.Bean, error) {
	query := beanSelect + ` WHERE 1=1`
	args := make([]any, 0)
	if strings.TrimSpace(f.Category) != "" {
		category, ok := model.ParseCategory(strings.ToLower(strings.TrimSpace(f.Category)))
		if !ok {
			return nil, fmt.Errorf("invalid category %q", f.Category)
		}
		query += ` AND category = ?`
		args = append(args, string(category))
	}
	if strings.TrimSpace(f.State) != "" {
		state, ok := model.ParseBeanState(strings.ToLower(strings.TrimSpace(f.State)))
		if !ok {
			return nil, fmt.Errorf("invalid state %q", f.State)
		}
		query += ` AND state = ?`
		args = append(args, string(state))
	}
	if f.InStock {
		query += ` AND remaining_g > 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list beans: %w", err)
	}
	defer rows.Close()

	beans := make([]model.Bean, 0)
	for rows.Next() {
		bean, err := scanBean(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bean: %w", err)
		}
		beans = append(beans, *bean)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate beans: %w", err)
	}
	return beans, nil
}

type UpdateBeanInput struct {
	ID        string
	Name      *string
	Price     *float64
	RoastDate *string
	StartDay  *int
	EndDay    *int
	IsFrozen  *bool
	Notes     *string
}

func UpdateBean(db *sql.DB, in UpdateBeanInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("bean id is required")
	}
	sets := make([]string, 0, 8)
	args := make([]any, 0, 8)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("bean name is required")
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if in.Price != nil {
		if err := validateNonNegativeFloat("price", *in.Price); err != nil {
			return err
		}
		sets = append(sets, "price = ?")
		args = append(args, *in.Price)
	}
	if in.RoastDate != nil {
		if err := validateDateString("roast date", *in.RoastDate); err != nil {
			return err
		}
		sets = append(sets, "roast_date = ?")
		args = append(args, nullableString(*in.RoastDate))
	}
	if in.StartDay != nil {
		sets = append(sets, "start_day = ?")
		args = append(args, *in.StartDay)
	}
	if in.EndDay != nil {
		sets = append(sets, "end_day = ?")
		args = append(args, *in.EndDay)
	}
	if in.IsFrozen != nil {
		sets = append(sets, "is_frozen = ?")
		args = append(args, boolToInt(*in.IsFrozen))
	}
	if in.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, strings.TrimSpace(*in.Notes))
	}
	if len(sets) == 0 {
		return fmt.Errorf("nothing to update")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().Format(time.RFC3339))
	args = append(args, in.ID)

	res, err := db.Exec(`UPDATE beans SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update bean %s: %w", in.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for bean %s: %w", in.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("bean %s not found", in.ID)
	}
	return nil
}

func DeleteBean(db *sql.DB, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("bean id is required")
	}
	res, err := db.Exec(`DELETE FROM beans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bean %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for bean %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("bean %s not found", id)
	}
	return nil
}

const beanSelect = `
SELECT id, name, category, state, capacity_g, remaining_g, price, IFNULL(roast_date, ''), start_day, end_day, is_frozen, IFNULL(notes, ''), created_at, updated_at
FROM beans`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBean(row rowScanner) (*model.Bean, error) {
	var b model.Bean
	var category, state, createdRaw, updatedRaw string
	var frozen int
	if err := row.Scan(&b.ID, &b.Name, &category, &state, &b.CapacityG, &b.RemainingG, &b.Price,
		&b.RoastDate, &b.StartDay, &b.EndDay, &frozen, &b.Notes, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	b.Category = model.Category(category)
	b.State = model.BeanState(state)
	b.IsFrozen = frozen != 0
	created, err := time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for bean %s: %w", b.ID, err)
	}
	b.CreatedAt = created
	updated, err := time.Parse(time.RFC3339, updatedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at for bean %s: %w", b.ID, err)
	}
	b.UpdatedAt = updated
	return &b, nil
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
