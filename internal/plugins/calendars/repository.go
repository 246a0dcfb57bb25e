package calendars

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// CalendarRepository defines persistence operations for calendar definitions.
type CalendarRepository interface {
	Create(ctx context.Context, cal *Calendar) error
	GetByID(ctx context.Context, id string) (*Calendar, error)
	List(ctx context.Context) ([]Calendar, error)
	Update(ctx context.Context, cal *Calendar) error
	Delete(ctx context.Context, id string) error
}

// calendarRepo is the MariaDB implementation of CalendarRepository.
type calendarRepo struct {
	db *sql.DB
}

// NewCalendarRepository creates a new MariaDB-backed calendar repository.
func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return &calendarRepo{db: db}
}

// calendarCols is the column list for calendar queries.
const calendarCols = `id, name, description, config, created_at, updated_at`

// scanCalendar reads a row into a Calendar, decoding the config document.
func scanCalendar(scanner interface{ Scan(...any) error }) (*Calendar, error) {
	cal := &Calendar{}
	var configJSON []byte
	err := scanner.Scan(&cal.ID, &cal.Name, &cal.Description, &configJSON,
		&cal.CreatedAt, &cal.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &cal.Config); err != nil {
		return nil, fmt.Errorf("decoding calendar config %s: %w", cal.ID, err)
	}
	return cal, nil
}

// Create inserts a new calendar definition.
func (r *calendarRepo) Create(ctx context.Context, cal *Calendar) error {
	configJSON, err := json.Marshal(cal.Config)
	if err != nil {
		return fmt.Errorf("encoding calendar config: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO calendars (id, name, description, config) VALUES (?, ?, ?, ?)`,
		cal.ID, cal.Name, cal.Description, configJSON,
	)
	return err
}

// GetByID returns a calendar by its ID, or nil if absent.
func (r *calendarRepo) GetByID(ctx context.Context, id string) (*Calendar, error) {
	return scanCalendar(r.db.QueryRowContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE id = ?`, id))
}

// List returns all calendar definitions ordered by name.
func (r *calendarRepo) List(ctx context.Context) ([]Calendar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+calendarCols+` FROM calendars ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cals []Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		cals = append(cals, *cal)
	}
	return cals, rows.Err()
}

// Update replaces a calendar's name, description, and definition.
func (r *calendarRepo) Update(ctx context.Context, cal *Calendar) error {
	configJSON, err := json.Marshal(cal.Config)
	if err != nil {
		return fmt.Errorf("encoding calendar config: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE calendars SET name = ?, description = ?, config = ? WHERE id = ?`,
		cal.Name, cal.Description, configJSON, cal.ID,
	)
	return err
}

// Delete removes a calendar definition.
func (r *calendarRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	return err
}
