// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tiw25999/license-plate-system/internal/activity"
	"github.com/tiw25999/license-plate-system/internal/cache"
	"github.com/tiw25999/license-plate-system/internal/metrics"
	"github.com/tiw25999/license-plate-system/internal/model"
	"github.com/tiw25999/license-plate-system/internal/repository"
)

// Plate service errors.
var (
	ErrInvalidPlateNumber = errors.New("invalid plate number")
	ErrInvalidTimestamp   = errors.New("invalid timestamp format, expected DD/MM/YYYY HH:MM:SS")
	ErrInvalidDateFormat  = errors.New("invalid date format, expected DD/MM/YYYY")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidHour        = errors.New("hour must be between 0 and 23")
	ErrInvalidYear        = errors.New("invalid year")
	ErrInvalidLimit       = fmt.Errorf("limit must be between 1 and %d", model.SearchLimitMax)
	ErrPlateNotFound      = errors.New("plate not found")
)

// plateNumberRegex accepts Thai plate formats: optional leading digit,
// 1-3 Thai consonants or latin letters, then up to 4 digits. Fragments
// with spaces and hyphens are tolerated since cameras are inconsistent.
var plateNumberRegex = regexp.MustCompile(`^[0-9]{0,2}[\p{L}]{1,3}[ -]?[0-9]{1,4}$`)

const (
	maxPlateNumberLength = 20
	dateOnlyFormat       = "02/01/2006"
)

// PlateService handles sighting business logic.
type PlateService struct {
	repo     *repository.Repository
	cache    *cache.Cache
	activity *activity.Publisher
	logger   *slog.Logger
	location *time.Location
	metrics  metrics.Recorder
}

// NewPlateService creates a new PlateService. The location is the
// display timezone used to interpret client-supplied timestamps and
// search date bounds.
func NewPlateService(repo *repository.Repository, cache *cache.Cache, publisher *activity.Publisher, logger *slog.Logger, location *time.Location, recorder metrics.Recorder) *PlateService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlateService{
		repo:     repo,
		cache:    cache,
		activity: publisher,
		logger:   logger,
		location: location,
		metrics:  recorder,
	}
}

// AddPlateInput defines input for recording a sighting.
type AddPlateInput struct {
	PlateNumber string
	Timestamp   string // optional, DD/MM/YYYY HH:MM:SS in display timezone
	Province    string
	CameraID    string
	CameraName  string
	UserID      string // empty for unauthenticated camera inserts
	IPAddress   string
	UserAgent   string
}

// AddPlate records a new sighting. The capture time defaults to now;
// clients may override it with a display-format timestamp.
func (s *PlateService) AddPlate(ctx context.Context, input AddPlateInput) (*model.Plate, error) {
	plateNumber := strings.TrimSpace(input.PlateNumber)
	if err := validatePlateNumber(plateNumber); err != nil {
		return nil, err
	}

	capturedAt := time.Now().UTC()
	if input.Timestamp != "" {
		parsed, err := time.ParseInLocation(model.DisplayTimeFormat, input.Timestamp, s.location)
		if err != nil {
			return nil, ErrInvalidTimestamp
		}
		capturedAt = parsed.UTC()
	}

	plate := &model.Plate{
		ID:          "pl_" + ulid.Make().String(),
		PlateNumber: plateNumber,
		Province:    strings.TrimSpace(input.Province),
		CameraID:    strings.TrimSpace(input.CameraID),
		CameraName:  strings.TrimSpace(input.CameraName),
		CapturedAt:  capturedAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.AddPlate(ctx, plate); err != nil {
		return nil, err
	}

	s.metrics.IncPlateCreated()

	// Drop the cached latest sighting so the next lookup sees this one.
	if s.cache != nil {
		if err := s.cache.DeletePlate(ctx, plateNumber); err != nil {
			s.logger.Warn("failed to invalidate plate cache",
				slog.String("plate", plateNumber),
				slog.String("error", err.Error()))
		}
	}

	if s.activity != nil && input.UserID != "" {
		s.activity.PublishAsync(activity.EventPayload{
			UserID:      input.UserID,
			Action:      model.ActionPlateAdd,
			Description: "เพิ่มทะเบียน: " + plateNumber,
			IPAddress:   input.IPAddress,
			UserAgent:   input.UserAgent,
			OccurredAt:  time.Now().UnixMilli(),
		})
	}

	return plate, nil
}

// GetPlate retrieves the latest sighting of a plate number, cache-aside.
func (s *PlateService) GetPlate(ctx context.Context, plateNumber string) (*model.Plate, error) {
	plateNumber = strings.TrimSpace(plateNumber)
	if plateNumber == "" {
		return nil, ErrInvalidPlateNumber
	}

	if s.cache != nil {
		cached, err := s.cache.GetPlate(ctx, plateNumber)
		if err == nil && cached != nil {
			s.metrics.IncPlateCacheHit()
			return cached, nil
		}
		s.metrics.IncPlateCacheMiss()
	}

	plate, err := s.repo.GetPlateByNumber(ctx, plateNumber)
	if err != nil {
		if errors.Is(err, repository.ErrPlateNotFound) {
			return nil, ErrPlateNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPlate(ctx, plate); err != nil {
			s.logger.Warn("failed to cache plate",
				slog.String("plate", plateNumber),
				slog.String("error", err.Error()))
		}
	}

	return plate, nil
}

// ListPlates returns recent sightings, newest first.
func (s *PlateService) ListPlates(ctx context.Context, limit int) ([]*model.Plate, error) {
	if limit <= 0 || limit > model.SearchLimitMax {
		limit = model.SearchLimitDefault
	}
	return s.repo.ListPlates(ctx, limit)
}

// Search validates the search parameters, resolves display-format date
// bounds into absolute times, and runs the query.
func (s *PlateService) Search(ctx context.Context, params model.SearchParams) ([]*model.Plate, error) {
	filter, err := s.buildSearchFilter(params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	plates, err := s.repo.SearchPlates(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSearchDuration(time.Since(start))

	return plates, nil
}

// buildSearchFilter validates every parameter and converts date bounds
// from display-timezone DD/MM/YYYY strings into absolute UTC instants.
func (s *PlateService) buildSearchFilter(params model.SearchParams) (repository.PlateSearchFilter, error) {
	var filter repository.PlateSearchFilter

	if err := validateMonthRange(params.StartMonth, params.EndMonth); err != nil {
		return filter, err
	}
	if err := validateYearRange(params.StartYear, params.EndYear); err != nil {
		return filter, err
	}
	if err := validateHourRange(params.StartHour, params.EndHour); err != nil {
		return filter, err
	}

	limit := params.Limit
	if limit == 0 {
		limit = model.SearchLimitDefault
	}
	if limit < 1 || limit > model.SearchLimitMax {
		return filter, ErrInvalidLimit
	}

	var capturedAfter, capturedBefore *time.Time
	if params.StartDate != "" {
		t, err := time.ParseInLocation(dateOnlyFormat, params.StartDate, s.location)
		if err != nil {
			return filter, ErrInvalidDateFormat
		}
		utc := t.UTC()
		capturedAfter = &utc
	}
	if params.EndDate != "" {
		t, err := time.ParseInLocation(dateOnlyFormat, params.EndDate, s.location)
		if err != nil {
			return filter, ErrInvalidDateFormat
		}
		// Inclusive end of day in the display timezone.
		utc := t.AddDate(0, 0, 1).Add(-time.Second).UTC()
		capturedBefore = &utc
	}
	if capturedAfter != nil && capturedBefore != nil && capturedAfter.After(*capturedBefore) {
		return filter, ErrInvalidDateRange
	}

	return repository.PlateSearchFilter{
		Term:           strings.TrimSpace(params.SearchTerm),
		Province:       strings.TrimSpace(params.Province),
		CameraID:       strings.TrimSpace(params.CameraID),
		CameraName:     strings.TrimSpace(params.CameraName),
		CapturedAfter:  capturedAfter,
		CapturedBefore: capturedBefore,
		StartMonth:     params.StartMonth,
		EndMonth:       params.EndMonth,
		StartYear:      params.StartYear,
		EndYear:        params.EndYear,
		StartHour:      params.StartHour,
		EndHour:        params.EndHour,
		Timezone:       s.location.String(),
		Limit:          limit,
	}, nil
}

// CountPlates returns the total number of stored sightings.
func (s *PlateService) CountPlates(ctx context.Context) (int64, error) {
	return s.repo.CountPlates(ctx)
}

// Location returns the display timezone for rendering responses.
func (s *PlateService) Location() *time.Location {
	return s.location
}

func validatePlateNumber(plateNumber string) error {
	if plateNumber == "" || len(plateNumber) > maxPlateNumberLength {
		return ErrInvalidPlateNumber
	}
	if !plateNumberRegex.MatchString(plateNumber) {
		return ErrInvalidPlateNumber
	}
	return nil
}

func validateMonthRange(start, end int) error {
	if start != 0 && (start < 1 || start > 12) {
		return ErrInvalidMonth
	}
	if end != 0 && (end < 1 || end > 12) {
		return ErrInvalidMonth
	}
	if start != 0 && end != 0 && start > end {
		return ErrInvalidMonth
	}
	return nil
}

func validateYearRange(start, end int) error {
	if start != 0 && (start < 1970 || start > 3000) {
		return ErrInvalidYear
	}
	if end != 0 && (end < 1970 || end > 3000) {
		return ErrInvalidYear
	}
	if start != 0 && end != 0 && start > end {
		return ErrInvalidYear
	}
	return nil
}

func validateHourRange(start, end int) error {
	if start != -1 && (start < 0 || start > 23) {
		return ErrInvalidHour
	}
	if end != -1 && (end < 0 || end > 23) {
		return ErrInvalidHour
	}
	if start != -1 && end != -1 && start > end {
		return ErrInvalidHour
	}
	return nil
}
