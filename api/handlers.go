/*
handlers.go - HTTP API handlers for the lead-intake service

PURPOSE:
  Exposes the schedule engine and lead persistence via REST. Handles HTTP
  request/response and JSON serialization, delegating all calendar logic
  to the schedule package and all state transitions to intake.

ENDPOINTS:
  Leads:
    GET    /api/leads                                    List leads
    POST   /api/leads                                    Create lead
    GET    /api/leads/{id}                               Get lead
    DELETE /api/leads/{id}                               Delete lead
    POST   /api/leads/{id}/submit                        Validate and submit
    PUT    /api/leads/{id}/employers/{slot}/schedule     Replace schedule
    PUT    /api/leads/{id}/employers/{slot}/dates        Set next pay date

  Schedule queries (stateless):
    POST   /api/schedule/allowed-day      Date-picker gating
    POST   /api/schedule/next-occurrence  Next valid pay date
    POST   /api/schedule/first-valid      Auto-generation scan
    POST   /api/schedule/validate         Full pay-date-set validation

DETERMINISM:
  The engine takes "today" as an explicit parameter. Stateless schedule
  queries accept it in the request body; stateful handlers fall back to the
  handler's clock, which tests override.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: malformed input (bad dates, bad schedule config)
  - 404: lead or slot not found
  - 422: validation failures on submit
  - 500: storage errors

SEE ALSO:
  - dto.go: Request/response data structures
  - roller.go: Background pay-date roll-forward
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lendfront/payroll-engine/factory"
	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
	"github.com/lendfront/payroll-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Now supplies the wall clock; tests pin it to a fixed date.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Now:   time.Now,
	}
}

func (h *Handler) today() schedule.Date {
	return schedule.DateOf(h.Now().UTC())
}

// =============================================================================
// LEAD HANDLERS
// =============================================================================

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Store.ListLeads(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list leads", err)
		return
	}

	dtos := make([]LeadDTO, 0, len(leads))
	for _, l := range leads {
		dtos = append(dtos, toLeadDTO(l))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.FirstName == "" && req.LastName == "" {
		writeError(w, http.StatusBadRequest, "borrower name is required", nil)
		return
	}

	lead := intake.NewLead(req.FirstName, req.LastName)
	for _, er := range req.Employers {
		e, err := er.toEmployer()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid employer", err)
			return
		}
		if err := lead.AddEmployer(e); err != nil {
			writeError(w, http.StatusBadRequest, "too many employers", err)
			return
		}
	}

	if err := h.Store.SaveLead(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save lead", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeadDTO(lead))
}

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLeadDTO(lead))
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.Store.DeleteLead(r.Context(), id)
	if errors.Is(err, intake.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete lead", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitLead validates every employer's pay-date set and, when clean,
// marks the lead submitted. Validation failures come back field-keyed with
// status 422 so the form can bind them.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}

	if errs := intake.ValidateLead(h.today(), lead); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Valid: false, Errors: errs})
		return
	}

	lead.Status = intake.StatusSubmitted
	if err := h.Store.SaveLead(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save lead", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeadDTO(lead))
}

// =============================================================================
// EMPLOYER HANDLERS
// =============================================================================

// ReplaceSchedule swaps one employer slot's schedule configuration. A
// frequency change clears the slot's dependent dates.
func (h *Handler) ReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	lead, slot, e, ok := h.loadEmployer(w, r)
	if !ok {
		return
	}

	var cfg factory.ScheduleJSON
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ctx, err := factory.FromConfig(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule", err)
		return
	}

	lead.Employers[slot] = intake.ReplaceSchedule(*e, ctx)
	if err := h.Store.SaveLead(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save lead", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeadDTO(lead))
}

// SetDates records a user-picked next pay date for one employer slot and
// derives the dependent dates: the second pay date is recomputed from the
// schedule, and the first payment date defaults to the next pay date.
func (h *Handler) SetDates(w http.ResponseWriter, r *http.Request) {
	lead, slot, e, ok := h.loadEmployer(w, r)
	if !ok {
		return
	}

	var req SetDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	next, err := schedule.ParseDate(req.NextPayDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid nextPayDate", err)
		return
	}

	updated := *e
	if req.LastPayDate != nil {
		last, err := parseDatePtr(req.LastPayDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid lastPayDate", err)
			return
		}
		updated.Dates.LastPayDate = last
	}
	updated = intake.ApplyNextPayDate(updated, next)

	lead.Employers[slot] = updated
	if err := h.Store.SaveLead(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save lead", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeadDTO(lead))
}

// =============================================================================
// STATELESS SCHEDULE QUERIES
// =============================================================================

// AllowedDay gates the date picker: may this date be selected under this
// schedule?
func (h *Handler) AllowedDay(w http.ResponseWriter, r *http.Request) {
	var req AllowedDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	d, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	ctx, err := factory.FromConfig(req.Schedule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule", err)
		return
	}

	allowed := ctx.AllowsDay(d)
	if req.ForSelection {
		allowed = ctx.AllowsSelection(d)
	}
	writeJSON(w, http.StatusOK, AllowedDayResponse{Allowed: allowed})
}

func (h *Handler) NextOccurrence(w http.ResponseWriter, r *http.Request) {
	var req NextOccurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	current, err := schedule.ParseDate(req.CurrentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currentDate", err)
		return
	}
	ctx, err := factory.FromConfig(req.Schedule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule", err)
		return
	}

	var resp NextOccurrenceResponse
	if next, ok := schedule.NextOccurrence(current, ctx); ok {
		resp.Date = dateStr(&next)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) FirstValid(w http.ResponseWriter, r *http.Request) {
	var req FirstValidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	today := h.today()
	if req.Today != "" {
		var err error
		if today, err = schedule.ParseDate(req.Today); err != nil {
			writeError(w, http.StatusBadRequest, "invalid today", err)
			return
		}
	}
	ctx, err := factory.FromConfig(req.Schedule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule", err)
		return
	}

	var resp NextOccurrenceResponse
	if first, ok := schedule.FirstValidFrom(today, ctx); ok {
		resp.Date = dateStr(&first)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ValidateDates(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	today := h.today()
	if req.Today != "" {
		var err error
		if today, err = schedule.ParseDate(req.Today); err != nil {
			writeError(w, http.StatusBadRequest, "invalid today", err)
			return
		}
	}
	ctx, err := factory.FromConfig(req.Schedule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule", err)
		return
	}
	set, err := req.Dates.toPayDateSet()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dates", err)
		return
	}

	errs := schedule.ValidatePayDateSet(today, set, ctx)
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadLead(w http.ResponseWriter, r *http.Request) (*intake.Lead, bool) {
	id := chi.URLParam(r, "id")
	lead, err := h.Store.GetLead(r.Context(), id)
	if errors.Is(err, intake.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found", err)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lead", err)
		return nil, false
	}
	return lead, true
}

func (h *Handler) loadEmployer(w http.ResponseWriter, r *http.Request) (*intake.Lead, int, *intake.Employer, bool) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return nil, 0, nil, false
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employer slot", err)
		return nil, 0, nil, false
	}
	e, err := lead.EmployerAt(slot)
	if err != nil {
		writeError(w, http.StatusNotFound, "employer slot not found", err)
		return nil, 0, nil, false
	}
	return lead, slot, e, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	writeJSON(w, status, map[string]string{
		"error":  message,
		"detail": detail,
	})
}
