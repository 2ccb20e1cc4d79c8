package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tiw25999/license-plate-system/internal/handler/dto"
	"github.com/tiw25999/license-plate-system/internal/middleware"
	"github.com/tiw25999/license-plate-system/internal/model"
	"github.com/tiw25999/license-plate-system/internal/service"
)

// PlateHandler handles HTTP requests for sighting operations.
type PlateHandler struct {
	svc    *service.PlateService
	logger *slog.Logger
}

// NewPlateHandler creates a new PlateHandler.
func NewPlateHandler(svc *service.PlateService, logger *slog.Logger) *PlateHandler {
	return &PlateHandler{
		svc:    svc,
		logger: logger,
	}
}

// Add handles POST /add_plate.
func (h *PlateHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPlateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	// Camera firmware sends query parameters instead of a JSON body.
	query := r.URL.Query()
	if req.PlateNumber == "" {
		req.PlateNumber = query.Get("plate_number")
	}
	if req.Timestamp == "" {
		req.Timestamp = query.Get("timestamp")
	}
	if req.Province == "" {
		req.Province = query.Get("province")
	}
	if req.CameraID == "" {
		req.CameraID = query.Get("id_camera")
	}
	if req.CameraName == "" {
		req.CameraName = query.Get("camera_name")
	}

	input := service.AddPlateInput{
		PlateNumber: req.PlateNumber,
		Timestamp:   req.Timestamp,
		Province:    req.Province,
		CameraID:    req.CameraID,
		CameraName:  req.CameraName,
		IPAddress:   middleware.ClientIP(r),
		UserAgent:   r.UserAgent(),
	}
	if caller := authContext(r); caller != nil {
		input.UserID = caller.UserID
	}

	plate, err := h.svc.AddPlate(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("plate_added",
		"plate_id", plate.ID,
		"plate", plate.PlateNumber,
		"camera_id", plate.CameraID,
	)

	writeJSON(w, http.StatusCreated, dto.AddPlateResponse{
		Status: "success",
		Plate:  plate.ToResponse(h.svc.Location()),
	})
}

// List handles GET /get_plates. With a plate_number query it returns
// the latest sighting of that plate instead of the full listing.
func (h *PlateHandler) List(w http.ResponseWriter, r *http.Request) {
	if plateNumber := r.URL.Query().Get("plate_number"); plateNumber != "" {
		h.getLatest(w, r, plateNumber)
		return
	}

	limit := model.SearchLimitDefault
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > model.SearchLimitMax {
			h.writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "Limit must be between 1 and 5000")
			return
		}
		limit = parsed
	}

	plates, err := h.svc.ListPlates(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPlateListResponse(plates, h.svc.Location()))
}

// getLatest returns the most recent sighting of the given plate.
func (h *PlateHandler) getLatest(w http.ResponseWriter, r *http.Request, plateNumber string) {
	plate, err := h.svc.GetPlate(r.Context(), plateNumber)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plate.ToResponse(h.svc.Location()))
}

// Stats handles GET /stats. The dashboard polls this for the total
// sighting count.
func (h *PlateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.CountPlates(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsResponse{TotalPlates: count})
}

// Search handles GET /search_plates.
func (h *PlateHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}

	plates, err := h.svc.Search(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPlateListResponse(plates, h.svc.Location()))
}

// parseSearchParams reads query parameters into SearchParams. Numeric
// parameters must parse cleanly; hours default to -1 (unset).
func parseSearchParams(r *http.Request) (model.SearchParams, error) {
	query := r.URL.Query()

	params := model.SearchParams{
		SearchTerm: query.Get("search_term"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		Province:   query.Get("province"),
		CameraID:   query.Get("id_camera"),
		CameraName: query.Get("camera_name"),
		StartHour:  -1,
		EndHour:    -1,
	}

	intParams := []struct {
		name string
		dst  *int
	}{
		{"start_month", &params.StartMonth},
		{"end_month", &params.EndMonth},
		{"start_year", &params.StartYear},
		{"end_year", &params.EndYear},
		{"start_hour", &params.StartHour},
		{"end_hour", &params.EndHour},
		{"limit", &params.Limit},
	}
	for _, p := range intParams {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, errors.New(p.name + " must be an integer")
		}
		*p.dst = v
	}

	return params, nil
}

// handleServiceError maps service errors to HTTP responses.
func (h *PlateHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPlateNotFound):
		h.writeError(w, http.StatusNotFound, "PLATE_NOT_FOUND", "Plate not found")
	case errors.Is(err, service.ErrInvalidPlateNumber):
		h.writeError(w, http.StatusBadRequest, "INVALID_PLATE", "Invalid plate number")
	case errors.Is(err, service.ErrInvalidTimestamp),
		errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidHour),
		errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrInvalidLimit):
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *PlateHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}
