package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tiw25999/license-plate-system/internal/model"
)

// Common errors for plate repository operations.
var (
	ErrPlateNotFound = errors.New("plate not found")
)

// PlateSearchFilter defines resolved filters for searching sightings.
// Time bounds are absolute; month/year/hour filters are evaluated in the
// given timezone. Zero int values mean unset, except hours where -1 is unset.
type PlateSearchFilter struct {
	Term           string
	Province       string
	CameraID       string
	CameraName     string
	CapturedAfter  *time.Time
	CapturedBefore *time.Time
	StartMonth     int
	EndMonth       int
	StartYear      int
	EndYear        int
	StartHour      int
	EndHour        int
	Timezone       string
	Limit          int
}

// AddPlate inserts a new sighting.
func (r *Repository) AddPlate(ctx context.Context, plate *model.Plate) error {
	query := `
		INSERT INTO plates (id, plate_number, province, camera_id, camera_name, captured_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		plate.ID,
		plate.PlateNumber,
		nullIfEmpty(plate.Province),
		nullIfEmpty(plate.CameraID),
		nullIfEmpty(plate.CameraName),
		plate.CapturedAt,
		plate.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add plate: %w", err)
	}

	return nil
}

// GetPlateByNumber retrieves the most recent sighting of a plate number.
func (r *Repository) GetPlateByNumber(ctx context.Context, plateNumber string) (*model.Plate, error) {
	query := `
		SELECT id, plate_number, province, camera_id, camera_name, captured_at, created_at
		FROM plates
		WHERE plate_number = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`

	plate, err := scanPlate(r.pool.QueryRow(ctx, query, plateNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlateNotFound
		}
		return nil, fmt.Errorf("failed to get plate by number: %w", err)
	}

	return plate, nil
}

// ListPlates retrieves sightings newest first, bounded by limit.
func (r *Repository) ListPlates(ctx context.Context, limit int) ([]*model.Plate, error) {
	query := `
		SELECT id, plate_number, province, camera_id, camera_name, captured_at, created_at
		FROM plates
		ORDER BY captured_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plates: %w", err)
	}
	defer rows.Close()

	return collectPlates(rows)
}

// SearchPlates retrieves sightings matching the filter, newest first.
func (r *Repository) SearchPlates(ctx context.Context, filter PlateSearchFilter) ([]*model.Plate, error) {
	query := `
		SELECT id, plate_number, province, camera_id, camera_name, captured_at, created_at
		FROM plates
		WHERE 1=1
	`
	var args []any
	argIndex := 1

	addCond := func(cond string, value any) {
		query += fmt.Sprintf(" AND "+cond, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.Term != "" {
		addCond("plate_number ILIKE '%%' || $%d || '%%'", filter.Term)
	}
	if filter.Province != "" {
		addCond("province = $%d", filter.Province)
	}
	if filter.CameraID != "" {
		addCond("camera_id = $%d", filter.CameraID)
	}
	if filter.CameraName != "" {
		addCond("camera_name = $%d", filter.CameraName)
	}
	if filter.CapturedAfter != nil {
		addCond("captured_at >= $%d", *filter.CapturedAfter)
	}
	if filter.CapturedBefore != nil {
		addCond("captured_at <= $%d", *filter.CapturedBefore)
	}

	// Month, year and hour filters are evaluated against the wall clock in
	// the display timezone, which is how operators reason about captures.
	tz := filter.Timezone
	if tz == "" {
		tz = "UTC"
	}
	localTime := fmt.Sprintf("(captured_at AT TIME ZONE '%s')", sanitizeTimezone(tz))

	if filter.StartMonth > 0 {
		addCond("EXTRACT(MONTH FROM "+localTime+") >= $%d", filter.StartMonth)
	}
	if filter.EndMonth > 0 {
		addCond("EXTRACT(MONTH FROM "+localTime+") <= $%d", filter.EndMonth)
	}
	if filter.StartYear > 0 {
		addCond("EXTRACT(YEAR FROM "+localTime+") >= $%d", filter.StartYear)
	}
	if filter.EndYear > 0 {
		addCond("EXTRACT(YEAR FROM "+localTime+") <= $%d", filter.EndYear)
	}
	if filter.StartHour >= 0 {
		addCond("EXTRACT(HOUR FROM "+localTime+") >= $%d", filter.StartHour)
	}
	if filter.EndHour >= 0 {
		addCond("EXTRACT(HOUR FROM "+localTime+") <= $%d", filter.EndHour)
	}

	limit := filter.Limit
	if limit <= 0 || limit > model.SearchLimitMax {
		limit = model.SearchLimitDefault
	}
	query += fmt.Sprintf(" ORDER BY captured_at DESC LIMIT $%d", argIndex)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search plates: %w", err)
	}
	defer rows.Close()

	return collectPlates(rows)
}

// CountPlates returns the total number of stored sightings.
func (r *Repository) CountPlates(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count plates: %w", err)
	}
	return count, nil
}

// sanitizeTimezone restricts timezone names to characters valid in IANA
// identifiers. The value is interpolated into AT TIME ZONE, so anything
// else is replaced with UTC.
func sanitizeTimezone(tz string) string {
	for _, r := range tz {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '/' || r == '_' || r == '+' || r == '-':
		default:
			return "UTC"
		}
	}
	return tz
}

func collectPlates(rows pgx.Rows) ([]*model.Plate, error) {
	var plates []*model.Plate
	for rows.Next() {
		plate, err := scanPlate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plate: %w", err)
		}
		plates = append(plates, plate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plates: %w", err)
	}

	return plates, nil
}

// scanPlate scans a single row into a Plate model.
func scanPlate(row pgx.Row) (*model.Plate, error) {
	var plate model.Plate
	var province, cameraID, cameraName *string

	err := row.Scan(
		&plate.ID,
		&plate.PlateNumber,
		&province,
		&cameraID,
		&cameraName,
		&plate.CapturedAt,
		&plate.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	plate.Province = deref(province)
	plate.CameraID = deref(cameraID)
	plate.CameraName = deref(cameraName)
	return &plate, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
