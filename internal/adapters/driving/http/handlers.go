package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driving"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	pingTimeout      = 2 * time.Second
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"date is required"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ComponentHealth is the health of a single dependency
type ComponentHealth struct {
	Status string `json:"status" example:"healthy"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse reports overall and per-dependency health
// @Description Health status with per-component detail
type HealthResponse struct {
	Status     string                     `json:"status" example:"healthy"`
	Components map[string]ComponentHealth `json:"components"`
}

// ServiceListResponse wraps a page of service summaries
type ServiceListResponse struct {
	Services []domain.ServiceSummary `json:"services"`
}

// OrphanHistoryResponse wraps archived orphan records for a date
type OrphanHistoryResponse struct {
	Records []*domain.OrphanRecord `json:"records"`
}

// ConflictListResponse wraps recent concurrent-edit events
type ConflictListResponse struct {
	Conflicts []domain.ConflictEvent `json:"conflicts"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health of the API and its storage backends. Always 200 while the process can respond.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "healthy",
		Components: map[string]ComponentHealth{
			"server": {Status: "healthy"},
		},
	}

	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := ping(r.Context(), p); err != nil {
			resp.Components[name] = ComponentHealth{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			return
		}
		resp.Components[name] = ComponentHealth{Status: "healthy"}
	}
	check("database", s.db)
	check("redis", s.redisClient)

	writeJSON(w, http.StatusOK, resp)
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns 200 once the database and, when configured, Redis answer a ping
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := ping(r.Context(), s.db); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := ping(r.Context(), s.redisClient); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Service endpoints

// handleListServices godoc
// @Summary      List services
// @Description  Lists stored services, most recently updated first
// @Tags         Services
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of services"  default(50)
// @Success      200    {object}  ServiceListResponse
// @Failure      400    {object}  ErrorResponse  "Invalid limit"
// @Failure      500    {object}  ErrorResponse  "Internal server error"
// @Router       /services [get]
func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	services, err := s.planningService.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "list services", err)
		return
	}
	if services == nil {
		services = []domain.ServiceSummary{}
	}

	writeJSON(w, http.StatusOK, ServiceListResponse{Services: services})
}

// handleGetService godoc
// @Summary      Get service details
// @Description  Returns the order of worship for a date
// @Tags         Services
// @Produce      json
// @Param        date  query     string  true  "Service date (M/D/YY)"
// @Success      200   {object}  domain.ServiceDocument
// @Failure      400   {object}  ErrorResponse  "Missing or invalid date"
// @Failure      404   {object}  ErrorResponse  "Service not found"
// @Failure      500   {object}  ErrorResponse  "Internal server error"
// @Router       /service-details [get]
func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDate(w, r)
	if !ok {
		return
	}

	doc, err := s.planningService.Get(r.Context(), date)
	if err != nil {
		writeServiceError(w, "get service", err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleSaveServiceStructure godoc
// @Summary      Save service structure
// @Description  Merges a new order of worship with the stored selections. A stale lastKnownVersion is reported, never rejected. Orphaned selections are archived and returned as a warning.
// @Tags         Services
// @Accept       json
// @Produce      json
// @Param        request  body      driving.SaveStructureRequest  true  "Service structure"
// @Success      200      {object}  driving.SaveStructureResult
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      503      {object}  ErrorResponse  "Write kept colliding with concurrent saves"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /service-details [post]
func (s *Server) handleSaveServiceStructure(w http.ResponseWriter, r *http.Request) {
	var req driving.SaveStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date == "" {
		req.Date = r.URL.Query().Get("date")
	}

	result, err := s.planningService.SaveServiceStructure(r.Context(), req)
	if err != nil {
		writeServiceError(w, "save service structure", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDeleteService godoc
// @Summary      Delete service
// @Description  Deletes the service document and its selection index for a date
// @Tags         Services
// @Param        date  query  string  true  "Service date (M/D/YY)"
// @Success      204   "No Content"
// @Failure      400   {object}  ErrorResponse  "Missing or invalid date"
// @Failure      404   {object}  ErrorResponse  "Service not found"
// @Failure      500   {object}  ErrorResponse  "Internal server error"
// @Router       /service-details [delete]
func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDate(w, r)
	if !ok {
		return
	}

	if err := s.planningService.Delete(r.Context(), date); err != nil {
		writeServiceError(w, "delete service", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Orphan endpoints

// handleRecoverOrphans godoc
// @Summary      Recover orphaned selections
// @Description  Returns the selections dropped by the most recent orphaning save for a date
// @Tags         Orphans
// @Produce      json
// @Param        date  query     string  true  "Service date (M/D/YY)"
// @Success      200   {object}  domain.OrphanRecovery
// @Failure      400   {object}  ErrorResponse  "Missing or invalid date"
// @Failure      404   {object}  ErrorResponse  "No orphan event recorded"
// @Failure      500   {object}  ErrorResponse  "Internal server error"
// @Router       /service-details/orphans [get]
func (s *Server) handleRecoverOrphans(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDate(w, r)
	if !ok {
		return
	}

	recovery, err := s.planningService.RecoverOrphans(r.Context(), date)
	if err != nil {
		writeServiceError(w, "recover orphans", err)
		return
	}

	writeJSON(w, http.StatusOK, recovery)
}

// handleOrphanHistory godoc
// @Summary      Orphan history
// @Description  Lists archived orphan records for a date, newest first
// @Tags         Orphans
// @Produce      json
// @Param        date   query     string  true   "Service date (M/D/YY)"
// @Param        limit  query     int     false  "Maximum number of records"  default(50)
// @Success      200    {object}  OrphanHistoryResponse
// @Failure      400    {object}  ErrorResponse  "Missing or invalid parameters"
// @Failure      500    {object}  ErrorResponse  "Internal server error"
// @Router       /service-details/orphans/history [get]
func (s *Server) handleOrphanHistory(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDate(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	records, err := s.planningService.OrphanHistory(r.Context(), date, limit)
	if err != nil {
		writeServiceError(w, "orphan history", err)
		return
	}
	if records == nil {
		records = []*domain.OrphanRecord{}
	}

	writeJSON(w, http.StatusOK, OrphanHistoryResponse{Records: records})
}

// Selection endpoints

// handleGetSelections godoc
// @Summary      Get song selections
// @Description  Returns the slot-indexed selection record for a date
// @Tags         Selections
// @Produce      json
// @Param        date  query     string  true  "Service date (M/D/YY)"
// @Success      200   {object}  domain.SelectionIndexRecord
// @Failure      400   {object}  ErrorResponse  "Missing or invalid date"
// @Failure      404   {object}  ErrorResponse  "No selections recorded"
// @Failure      500   {object}  ErrorResponse  "Internal server error"
// @Router       /song-selections [get]
func (s *Server) handleGetSelections(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDate(w, r)
	if !ok {
		return
	}

	record, err := s.selectionService.GetSelections(r.Context(), date)
	if err != nil {
		writeServiceError(w, "get selections", err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleSaveSelections godoc
// @Summary      Save song selections
// @Description  Attaches songs and readings to existing slots of a service. Slots that match no element are reported in unknownSlots.
// @Tags         Selections
// @Accept       json
// @Produce      json
// @Param        request  body      driving.SaveSelectionsRequest  true  "Slot selections"
// @Success      200      {object}  driving.SaveSelectionsResult
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      404      {object}  ErrorResponse  "Service not found"
// @Failure      503      {object}  ErrorResponse  "Write kept colliding with concurrent saves"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /song-selections [post]
func (s *Server) handleSaveSelections(w http.ResponseWriter, r *http.Request) {
	var req driving.SaveSelectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date == "" {
		req.Date = r.URL.Query().Get("date")
	}

	result, err := s.selectionService.SaveSelections(r.Context(), req)
	if err != nil {
		writeServiceError(w, "save selections", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Conflict endpoints

// handleRecentConflicts godoc
// @Summary      Recent conflicts
// @Description  Lists recent concurrent-edit events, newest first. Empty when no notifier is configured.
// @Tags         Conflicts
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of events"  default(50)
// @Success      200    {object}  ConflictListResponse
// @Failure      400    {object}  ErrorResponse  "Invalid limit"
// @Failure      503    {object}  ErrorResponse  "Conflict feed unavailable"
// @Router       /conflicts/recent [get]
func (s *Server) handleRecentConflicts(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	events := []domain.ConflictEvent{}
	if s.conflicts != nil {
		recent, err := s.conflicts.Recent(r.Context(), limit)
		if err != nil {
			log.Printf("recent conflicts: %v", err)
			writeError(w, http.StatusServiceUnavailable, "conflict feed unavailable")
			return
		}
		if recent != nil {
			events = recent
		}
	}

	writeJSON(w, http.StatusOK, ConflictListResponse{Conflicts: events})
}

// Helper functions

func requireDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return "", false
	}
	return date, true
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}

func ping(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// writeServiceError maps domain errors to status codes. Unexpected errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrVersionMismatch):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConcurrentWrite):
		writeError(w, http.StatusServiceUnavailable, "too many concurrent edits, please retry")
	default:
		log.Printf("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
