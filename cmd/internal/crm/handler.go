package crm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leadboard/cmd/internal/auth/session"
	"leadboard/cmd/internal/insight"
	"leadboard/cmd/internal/response"
)

// InsightGenerator produces an AI-written summary for a customer profile.
type InsightGenerator interface {
	Generate(ctx context.Context, p insight.CustomerProfile) (string, error)
}

// Handler serves the CRM endpoints. All routes are registered behind the
// auth middleware, which puts the caller's claims on the request context.
type Handler struct {
	log      *slog.Logger
	store    Store
	insights InsightGenerator

	maxBodyBytes int64
}

// NewHandler constructs a CRM Handler. insights may be nil when no AI
// backend is configured.
func NewHandler(log *slog.Logger, store Store, insights InsightGenerator, maxBodyBytes int64) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, store: store, insights: insights, maxBodyBytes: maxBodyBytes}
}

// Register wires CRM routes onto the mux. Callers wrap the mux (or the
// registered handlers) with the auth middleware.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	if h == nil || mux == nil {
		return
	}
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("/private/customers", wrap(http.HandlerFunc(h.handleCustomers)))
	mux.Handle("/private/customers/status-color", wrap(http.HandlerFunc(h.handleStatusColor)))
	mux.Handle("/private/customers/", wrap(http.HandlerFunc(h.handleCustomerByID)))
	mux.Handle("/private/notes", wrap(http.HandlerFunc(h.handleNotes)))
	mux.Handle("/private/notes/", wrap(http.HandlerFunc(h.handleNoteByID)))
	mux.Handle("/private/dashboard", wrap(http.HandlerFunc(h.handleDashboard)))
	mux.Handle("/private/insight", wrap(http.HandlerFunc(h.handleInsight)))
}

// ---- customers ----

func (h *Handler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCustomers(w, r)
	case http.MethodPost:
		h.addCustomer(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Search:  strings.TrimSpace(r.URL.Query().Get("search")),
		Job:     strings.TrimSpace(r.URL.Query().Get("job")),
		Marital: strings.TrimSpace(r.URL.Query().Get("marital")),
		Limit:   DefaultPageLimit,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			response.Fail(w, http.StatusBadRequest, "invalid limit", "invalid_request")
			return
		}
		q.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.Fail(w, http.StatusBadRequest, "invalid offset", "invalid_request")
			return
		}
		q.Offset = n
	}

	page, err := h.store.ListCustomers(r.Context(), q)
	if err != nil {
		h.log.Error("crm.customers.list.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "customers listed", map[string]any{
		"customers": page.Customers,
		"total":     page.Total,
	})
}

type addCustomerRequest struct {
	Customer   Customer           `json:"customer"`
	Indicators *EconomicIndicator `json:"indicators"`
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req addCustomerRequest
	if err := response.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		response.Fail(w, http.StatusBadRequest, "customer name is required", "invalid_request")
		return
	}

	c := req.Customer
	if c.ID == "" {
		c.ID = NewCustomerID()
	}

	if err := h.store.AddCustomer(r.Context(), c); err != nil {
		h.log.Error("crm.customers.add.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	if req.Indicators != nil {
		ind := *req.Indicators
		if err := h.store.AddEconomicIndicator(r.Context(), c.ID, ind); err != nil {
			h.log.Error("crm.customers.add_indicator.fail", "err", err, "customer", c.ID)
			response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
			return
		}
	}

	response.Success(w, http.StatusCreated, "customer added", map[string]any{
		"id": c.ID,
	})
}

type probabilityRequest struct {
	Probability *float64 `json:"probability"`
}

// handleCustomerByID dispatches /private/customers/{id}/... subresources.
// The only subresource today is the probability update.
func (h *Handler) handleCustomerByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/private/customers/")
	id, sub, ok := strings.Cut(rest, "/")
	if !ok || id == "" || sub != "probability" {
		response.Fail(w, http.StatusNotFound, "not found", "unknown_route")
		return
	}
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req probabilityRequest
	if err := response.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}
	if req.Probability == nil {
		response.Fail(w, http.StatusBadRequest, "probability is required", "invalid_request")
		return
	}
	if *req.Probability < 0 || *req.Probability > 1 {
		response.Fail(w, http.StatusBadRequest, "probability must be between 0 and 1", "invalid_request")
		return
	}

	if err := h.store.UpdateCustomerProbability(r.Context(), id, *req.Probability); err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			response.Fail(w, http.StatusNotFound, "customer not found", err.Error())
			return
		}
		h.log.Error("crm.customers.probability.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "probability updated", nil)
}

func (h *Handler) handleStatusColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	column := strings.TrimSpace(r.URL.Query().Get("column"))
	if !AllowedNumericColumn(column) {
		response.Fail(w, http.StatusBadRequest, "invalid column", ErrInvalidColumn.Error())
		return
	}
	value, err := strconv.ParseFloat(r.URL.Query().Get("value"), 64)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid value", "invalid_request")
		return
	}

	average, total, err := h.store.NumericColumnStats(r.Context(), column)
	if err != nil {
		h.log.Error("crm.status_color.fail", "err", err, "column", column)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "status color computed", map[string]any{
		"color": StatusColor(value, average, total),
	})
}

// ---- notes ----

type addNoteRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	CustomerID string `json:"customer_id"`
}

func (h *Handler) handleNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := session.ClaimsFrom(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "authorization failed", "missing_claims")
		return
	}

	var req addNoteRequest
	if err := response.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.CustomerID == "" {
		response.Fail(w, http.StatusBadRequest, "title and customer_id are required", "invalid_request")
		return
	}

	noteID, err := h.store.AddNote(r.Context(), NewNoteInput{
		Title:      req.Title,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
		CustomerID: req.CustomerID,
		Sales:      claims.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSalesNotFound):
			response.Fail(w, http.StatusNotFound, "sales user not found", err.Error())
		case errors.Is(err, ErrCustomerNotFound):
			response.Fail(w, http.StatusNotFound, "customer not found", err.Error())
		default:
			h.log.Error("crm.notes.add.fail", "err", err)
			response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		}
		return
	}

	response.Success(w, http.StatusCreated, "note added", map[string]any{
		"id": noteID,
	})
}

type editNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/private/notes/")
	if id == "" || strings.Contains(id, "/") {
		response.Fail(w, http.StatusNotFound, "note not found", "invalid_note_id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.editNote(w, r, id)
	case http.MethodDelete:
		h.deleteNote(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) editNote(w http.ResponseWriter, r *http.Request, id string) {
	var req editNoteRequest
	if err := response.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		response.Fail(w, http.StatusBadRequest, "title is required", "invalid_request")
		return
	}

	if err := h.store.EditNote(r.Context(), id, req.Title, req.Body); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			response.Fail(w, http.StatusNotFound, "note not found", err.Error())
			return
		}
		h.log.Error("crm.notes.edit.fail", "err", err, "note", id)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "note updated", nil)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteNote(r.Context(), id); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			response.Fail(w, http.StatusNotFound, "note not found", err.Error())
			return
		}
		h.log.Error("crm.notes.delete.fail", "err", err, "note", id)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "note deleted", nil)
}

// ---- dashboard ----

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	agg, err := h.store.DashboardAggregates(r.Context())
	if err != nil {
		h.log.Error("crm.dashboard.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "dashboard built", map[string]any{
		"dashboard": BuildDashboard(agg),
	})
}

// ---- insight ----

func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.insights == nil {
		response.Fail(w, http.StatusServiceUnavailable, "insight backend not configured", insight.ErrNotConfigured.Error())
		return
	}

	var profile insight.CustomerProfile
	if err := response.DecodeJSON(w, r, h.maxBodyBytes, &profile); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}

	text, err := h.insights.Generate(r.Context(), profile)
	if err != nil {
		if errors.Is(err, insight.ErrNotConfigured) {
			response.Fail(w, http.StatusServiceUnavailable, "insight backend not configured", err.Error())
			return
		}
		h.log.Error("crm.insight.fail", "err", err)
		response.Fail(w, http.StatusBadGateway, "insight generation failed", "upstream_error")
		return
	}

	response.Success(w, http.StatusOK, "insight generated", map[string]any{
		"insight": text,
	})
}
