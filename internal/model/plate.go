// Package model defines domain entities for the application.
package model

import "time"

// DisplayTimeFormat is the timestamp format shown to clients,
// e.g. "25/12/2025 14:30:00". Day first, as used throughout the
// Thai deployment this system serves.
const DisplayTimeFormat = "02/01/2006 15:04:05"

// Plate represents a single license-plate sighting captured by a camera.
type Plate struct {
	ID          string    `json:"id"`
	PlateNumber string    `json:"plate"`
	Province    string    `json:"province,omitempty"`
	CameraID    string    `json:"id_camera,omitempty"`
	CameraName  string    `json:"camera_name,omitempty"`
	CapturedAt  time.Time `json:"-"` // Stored UTC; rendered via DisplayTimestamp
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayTimestamp renders the capture time in the configured display
// timezone using the day-first format.
func (p *Plate) DisplayTimestamp(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return p.CapturedAt.In(loc).Format(DisplayTimeFormat)
}

// PlateResponse is the JSON representation of a sighting.
type PlateResponse struct {
	PlateNumber string `json:"plate"`
	Timestamp   string `json:"timestamp"`
	Province    string `json:"province,omitempty"`
	CameraID    string `json:"id_camera,omitempty"`
	CameraName  string `json:"camera_name,omitempty"`
}

// ToResponse converts a Plate to its response form.
func (p *Plate) ToResponse(loc *time.Location) PlateResponse {
	return PlateResponse{
		PlateNumber: p.PlateNumber,
		Timestamp:   p.DisplayTimestamp(loc),
		Province:    p.Province,
		CameraID:    p.CameraID,
		CameraName:  p.CameraName,
	}
}

// SearchParams defines the filters accepted by plate search.
// Date bounds use the display format's date part (DD/MM/YYYY) and are
// interpreted in the display timezone. Zero values mean "not set".
type SearchParams struct {
	SearchTerm string // plate number prefix or fragment
	StartDate  string // DD/MM/YYYY
	EndDate    string // DD/MM/YYYY
	StartMonth int    // 1-12
	EndMonth   int    // 1-12
	StartYear  int
	EndYear    int
	StartHour  int // 0-23; -1 means unset
	EndHour    int // 0-23; -1 means unset
	Province   string
	CameraID   string
	CameraName string
	Limit      int // 1-5000
}

// Search limits.
const (
	SearchLimitDefault = 5000
	SearchLimitMax     = 5000
)
