package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
	"github.com/wingtrack/wingtrack/modules/calendar/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/calendar/recurrence"
	"github.com/wingtrack/wingtrack/modules/calendar/services"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/composables"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
	"github.com/wingtrack/wingtrack/pkg/middleware"
	"github.com/wingtrack/wingtrack/pkg/shared"
)

type CalendarAPIController struct {
	app      application.Application
	events   *services.EventService
	basePath string
}

func NewCalendarAPIController(app application.Application) application.Controller {
	return &CalendarAPIController{
		app:      app,
		events:   app.Service(services.EventService{}).(*services.EventService),
		basePath: "/api/v1/calendar",
	}
}

func (c *CalendarAPIController) Key() string {
	return c.basePath
}

// Register wires the calendar routes. Write handlers are not wrapped in a
// request transaction: the service runs its own so that instance
// materialization can degrade per row instead of aborting the series.
func (c *CalendarAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireTenant())
	router.HandleFunc("/events", c.List).Methods(http.MethodGet)
	router.HandleFunc("/events", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/events/{id}", c.Update).Methods(http.MethodPatch)
	router.HandleFunc("/events/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/events/{id}/regenerate", c.Regenerate).Methods(http.MethodPost)
	router.HandleFunc("/rules/validate", c.ValidateRule).Methods(http.MethodPost)
}

type eventResponse struct {
	ID                uuid.UUID   `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Location          string      `json:"location"`
	EventType         string      `json:"event_type"`
	StartsAt          time.Time   `json:"starts_at"`
	EndsAt            time.Time   `json:"ends_at"`
	AllDay            bool        `json:"all_day"`
	IsRecurring       bool        `json:"is_recurring"`
	Recurrence        *event.Rule `json:"recurrence,omitempty"`
	RecurrenceEndDate *time.Time  `json:"recurrence_end_date,omitempty"`
	ParentEventID     *uuid.UUID  `json:"parent_event_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type eventWriteResponse struct {
	eventResponse
	InstancesCreated int      `json:"instances_created"`
	Warnings         []string `json:"warnings,omitempty"`
}

func toEventResponse(e *event.Event) eventResponse {
	return eventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Location:          e.Location,
		EventType:         e.EventType,
		StartsAt:          e.StartsAt,
		EndsAt:            e.EndsAt,
		AllDay:            e.AllDay,
		IsRecurring:       e.IsRecurring,
		Recurrence:        e.Recurrence,
		RecurrenceEndDate: e.RecurrenceEndDate,
		ParentEventID:     e.ParentEventID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toWriteResponse(res *services.ExpansionResult) eventWriteResponse {
	return eventWriteResponse{
		eventResponse:    toEventResponse(res.Event),
		InstancesCreated: res.InstancesCreated,
		Warnings:         res.Warnings,
	}
}

type eventRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	EventType   string      `json:"event_type"`
	StartsAt    *time.Time  `json:"starts_at"`
	EndsAt      *time.Time  `json:"ends_at"`
	AllDay      *bool       `json:"all_day"`
	IsRecurring *bool       `json:"is_recurring"`
	Recurrence  *event.Rule `json:"recurrence"`
}

func (req *eventRequest) validateCreate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if req.StartsAt == nil || req.EndsAt == nil {
		return "starts_at and ends_at are required"
	}
	if !req.EndsAt.After(*req.StartsAt) {
		return "ends_at must be after starts_at"
	}
	if req.IsRecurring != nil && *req.IsRecurring && req.Recurrence == nil {
		return "recurrence is required for recurring events"
	}
	return ""
}

func (c *CalendarAPIController) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	params := composables.UsePaginated(r)
	find := &event.FindParams{Limit: params.Limit, Offset: params.Offset}
	var badRange string
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRange = "from must be RFC3339"
		}
		find.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRange = "to must be RFC3339"
		}
		find.To = t
	}
	if badRange != "" {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_RANGE", badRange)
		return
	}
	entities, err := c.events.GetPaginated(r.Context(), find)
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CALENDAR_INTERNAL", errors.Wrap(err, "retrieving events").Error())
		return
	}
	out := make([]eventResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, toEventResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *CalendarAPIController) Get(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrEventNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "CALENDAR_NOT_FOUND", "event not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CALENDAR_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toEventResponse(entity))
}

func (c *CalendarAPIController) Create(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var req eventRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_BODY", err.Error())
		return
	}
	if msg := req.validateCreate(); msg != "" {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "CALENDAR_INVALID_BODY", msg)
		return
	}
	entity := event.New(req.Title, req.StartsAt.UTC(), req.EndsAt.UTC())
	entity.Description = req.Description
	entity.Location = req.Location
	entity.EventType = req.EventType
	if req.AllDay != nil {
		entity.AllDay = *req.AllDay
	}
	if req.IsRecurring != nil && *req.IsRecurring {
		entity.IsRecurring = true
		entity.Recurrence = req.Recurrence
		entity.RecurrenceEndDate = req.Recurrence.EndDate
	}
	result, err := c.events.Create(r.Context(), entity)
	if err != nil {
		writeEventError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toWriteResponse(result))
}

func (c *CalendarAPIController) Update(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrEventNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "CALENDAR_NOT_FOUND", "event not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CALENDAR_INTERNAL", err.Error())
		return
	}
	var req eventRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_BODY", err.Error())
		return
	}
	if req.Title != "" {
		entity.Title = req.Title
	}
	if req.Description != "" {
		entity.Description = req.Description
	}
	if req.Location != "" {
		entity.Location = req.Location
	}
	if req.EventType != "" {
		entity.EventType = req.EventType
	}
	if req.StartsAt != nil {
		entity.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		entity.EndsAt = req.EndsAt.UTC()
	}
	if req.AllDay != nil {
		entity.AllDay = *req.AllDay
	}
	if req.IsRecurring != nil {
		entity.IsRecurring = *req.IsRecurring
		if !entity.IsRecurring {
			entity.Recurrence = nil
			entity.RecurrenceEndDate = nil
		}
	}
	if req.Recurrence != nil {
		entity.Recurrence = req.Recurrence
		entity.RecurrenceEndDate = req.Recurrence.EndDate
	}
	if !entity.EndsAt.After(entity.StartsAt) {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "CALENDAR_INVALID_BODY", "ends_at must be after starts_at")
		return
	}
	result, err := c.events.Update(r.Context(), entity)
	if err != nil {
		writeEventError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toWriteResponse(result))
}

func (c *CalendarAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_ID", "id is not a valid uuid")
		return
	}
	scope := services.DeleteScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = services.ScopeOccurrence
	}
	if scope != services.ScopeOccurrence && scope != services.ScopeSeries {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_SCOPE", "scope must be occurrence or series")
		return
	}
	if err := c.events.Delete(r.Context(), id, scope); err != nil {
		if errors.Is(err, persistence.ErrEventNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "CALENDAR_NOT_FOUND", "event not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CALENDAR_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CalendarAPIController) Regenerate(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_ID", "id is not a valid uuid")
		return
	}
	result, err := c.events.Regenerate(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrEventNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "CALENDAR_NOT_FOUND", "event not found")
			return
		}
		writeEventError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toWriteResponse(result))
}

func (c *CalendarAPIController) ValidateRule(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var rule event.Rule
	if err := httpapi.DecodeJSON(r.Body, &rule); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CALENDAR_INVALID_BODY", err.Error())
		return
	}
	if err := c.events.ValidateRule(&rule); err != nil {
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"valid": true})
}

func writeEventError(w http.ResponseWriter, requestID string, err error) {
	var ruleErr *recurrence.InvalidRuleError
	if errors.As(err, &ruleErr) {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "CALENDAR_INVALID_RULE", ruleErr.Error())
		return
	}
	httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CALENDAR_INTERNAL", err.Error())
}
