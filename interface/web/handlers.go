package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ca-srg/tzconv/domain"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/go-chi/chi/v5"
)

const maxRequestBody = 1 << 16

// Handler serves the board JSON API
type Handler struct {
	board   usecase.TimezoneListService
	logger  domain.Logger
	version string
}

// NewHandler creates the API handler
func NewHandler(board usecase.TimezoneListService, logger domain.Logger, version string) *Handler {
	return &Handler{board: board, logger: logger, version: version}
}

// MutationResponse is returned by every mutating endpoint
type MutationResponse struct {
	Changed bool                   `json:"changed"`
	Board   *usecase.BoardSnapshot `json:"board"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type addZoneRequest struct {
	Abbreviation string `json:"abbreviation"`
}

type reorderRequest struct {
	Source      int  `json:"source"`
	Destination *int `json:"destination"`
}

type minuteRequest struct {
	Minute *int `json:"minute"`
}

type dragRequest struct {
	Active bool `json:"active"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type importRequest struct {
	Query string `json:"query"`
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

// GetBoard returns the current snapshot
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.board.Snapshot())
}

// GetCatalog returns the selectable zones
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	options, err := h.board.Catalog()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"timezones": options})
}

// GetLink returns the shareable link
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"link": h.board.ExportShareableLink()})
}

// AddZone appends a zone by abbreviation
func (h *Handler) AddZone(w http.ResponseWriter, r *http.Request) {
	var req addZoneRequest
	if !h.decode(w, r, &req) {
		return
	}
	changed, err := h.board.AddZone(r.Context(), req.Abbreviation)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, changed)
}

// RemoveZone deletes the row at the path index
func (h *Handler) RemoveZone(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	h.writeMutation(w, h.board.RemoveZone(r.Context(), index))
}

// RemoveZoneByID deletes the row holding the path id
func (h *Handler) RemoveZoneByID(w http.ResponseWriter, r *http.Request) {
	h.writeMutation(w, h.board.RemoveZoneByID(r.Context(), chi.URLParam(r, "id")))
}

// Reorder moves one row. A null destination is a cancelled drag.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeMutation(w, h.board.Reorder(r.Context(), req.Source, req.Destination))
}

// Reverse reverses the rows
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	h.board.ReverseOrder(r.Context())
	h.writeMutation(w, true)
}

// SetMinute applies a slider edit to the row at the path index
func (h *Handler) SetMinute(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	var req minuteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Minute == nil {
		h.writeError(w, r, domain.ErrInvalidInput("minute", "is required"))
		return
	}
	changed, err := h.board.OnRowClockChange(r.Context(), index, *req.Minute)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, changed)
}

// SetDrag marks the start or end of a slider gesture
func (h *Handler) SetDrag(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	var req dragRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeMutation(w, h.board.SetRowDragging(r.Context(), index, req.Active))
}

// SetDate changes the selected date
func (h *Handler) SetDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.writeError(w, r, domain.ErrInvalidInput("date", "must be YYYY-MM-DD"))
		return
	}
	h.board.SetSelectedDate(r.Context(), date)
	h.writeMutation(w, true)
}

// ToggleTheme flips the theme
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.board.ToggleTheme(r.Context())
	h.writeMutation(w, true)
}

// Import replaces the rows from a share link or query
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !h.decode(w, r, &req) {
		return
	}
	changed, err := h.board.ImportFromLink(r.Context(), req.Query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, changed)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, domain.ErrInvalidInput("body", err.Error()))
		return false
	}
	return true
}

func (h *Handler) pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, domain.ErrInvalidInput("index", "must be an integer"))
		return 0, false
	}
	return index, true
}

func (h *Handler) writeMutation(w http.ResponseWriter, changed bool) {
	writeJSON(w, http.StatusOK, MutationResponse{Changed: changed, Board: h.board.Snapshot()})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "Request failed",
			domain.NewField("path", r.URL.Path), domain.ErrorField(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: string(domain.GetErrorCode(err))})
}

func statusFor(err error) int {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}
	switch domainErr.Code {
	case domain.ErrCodeInvalidInput, domain.ErrCodeShareLink:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
