package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wingtrack/wingtrack/modules/jobboard/chart"
	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
	"github.com/wingtrack/wingtrack/modules/jobboard/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/jobboard/services"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
	"github.com/wingtrack/wingtrack/pkg/middleware"
	"github.com/wingtrack/wingtrack/pkg/shared"
)

type JobBoardAPIController struct {
	app         application.Application
	assignments *services.AssignmentService
	charts      *services.ChartService
	basePath    string
}

func NewJobBoardAPIController(app application.Application) application.Controller {
	return &JobBoardAPIController{
		app:         app,
		assignments: app.Service(services.AssignmentService{}).(*services.AssignmentService),
		charts:      app.Service(services.ChartService{}).(*services.ChartService),
		basePath:    "/api/v1/jobboard",
	}
}

func (c *JobBoardAPIController) Key() string {
	return c.basePath
}

func (c *JobBoardAPIController) Register(r *mux.Router) {
	getRouter := r.PathPrefix(c.basePath).Subrouter()
	getRouter.Use(middleware.RequireTenant())
	getRouter.HandleFunc("/assignments", c.List).Methods(http.MethodGet)
	getRouter.HandleFunc("/assignments/{id}", c.Get).Methods(http.MethodGet)
	getRouter.HandleFunc("/chart", c.Chart).Methods(http.MethodGet)

	setRouter := r.PathPrefix(c.basePath).Subrouter()
	setRouter.Use(middleware.RequireTenant(), middleware.WithTransaction())
	setRouter.HandleFunc("/assignments", c.Create).Methods(http.MethodPost)
	setRouter.HandleFunc("/assignments/{id}", c.Update).Methods(http.MethodPatch)
	setRouter.HandleFunc("/assignments/{id}", c.Delete).Methods(http.MethodDelete)
	setRouter.HandleFunc("/assignments/{id}/connections", c.SaveConnections).Methods(http.MethodPut)
	setRouter.HandleFunc("/chart/positions/{id}", c.SavePosition).Methods(http.MethodPut)
	setRouter.HandleFunc("/chart/positions", c.ResetLayout).Methods(http.MethodDelete)
}

type assignmentResponse struct {
	ID          uuid.UUID               `json:"id"`
	RoleName    string                  `json:"role_name"`
	CadetID     *uuid.UUID              `json:"cadet_id,omitempty"`
	ReportsTo   string                  `json:"reports_to"`
	Assistant   string                  `json:"assistant"`
	Connections []assignment.Connection `json:"connections"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func toAssignmentResponse(a *assignment.Assignment) assignmentResponse {
	connections := a.Connections
	if connections == nil {
		connections = []assignment.Connection{}
	}
	return assignmentResponse{
		ID:          a.ID,
		RoleName:    a.RoleName,
		CadetID:     a.CadetID,
		ReportsTo:   a.ReportsTo,
		Assistant:   a.Assistant,
		Connections: connections,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type assignmentRequest struct {
	RoleName  string     `json:"role_name"`
	CadetID   *uuid.UUID `json:"cadet_id"`
	ReportsTo *string    `json:"reports_to"`
	Assistant *string    `json:"assistant"`
}

func (c *JobBoardAPIController) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	entities, err := c.assignments.GetAll(r.Context())
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", errors.Wrap(err, "retrieving assignments").Error())
		return
	}
	out := make([]assignmentResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, toAssignmentResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *JobBoardAPIController) Get(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.assignments.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrAssignmentNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "JOBBOARD_NOT_FOUND", "assignment not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toAssignmentResponse(entity))
}

func (c *JobBoardAPIController) Create(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var req assignmentRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_BODY", err.Error())
		return
	}
	if strings.TrimSpace(req.RoleName) == "" {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "JOBBOARD_INVALID_BODY", "role_name is required")
		return
	}
	entity := assignment.New(req.RoleName)
	entity.CadetID = req.CadetID
	if req.ReportsTo != nil {
		entity.ReportsTo = *req.ReportsTo
	}
	if req.Assistant != nil {
		entity.Assistant = *req.Assistant
	}
	if err := c.assignments.Create(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toAssignmentResponse(entity))
}

func (c *JobBoardAPIController) Update(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.assignments.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrAssignmentNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "JOBBOARD_NOT_FOUND", "assignment not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	var req assignmentRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_BODY", err.Error())
		return
	}
	if req.RoleName != "" {
		entity.RoleName = req.RoleName
	}
	if req.CadetID != nil {
		entity.CadetID = req.CadetID
	}
	// Setting one link clears the other; the service normalizes the pair.
	if req.ReportsTo != nil {
		entity.ReportsTo = *req.ReportsTo
		if entity.HasParent() {
			entity.Assistant = assignment.NoLink
		}
	}
	if req.Assistant != nil {
		entity.Assistant = *req.Assistant
		if entity.IsAssistant() {
			entity.ReportsTo = assignment.NoLink
		}
	}
	if err := c.assignments.Update(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toAssignmentResponse(entity))
}

func (c *JobBoardAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_ID", "id is not a valid uuid")
		return
	}
	if err := c.assignments.Delete(r.Context(), id); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *JobBoardAPIController) SaveConnections(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_ID", "id is not a valid uuid")
		return
	}
	var req struct {
		Connections []assignment.Connection `json:"connections"`
	}
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_BODY", err.Error())
		return
	}
	for _, conn := range req.Connections {
		if conn.Type != assignment.ConnectionReportsTo && conn.Type != assignment.ConnectionAssistant {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "JOBBOARD_INVALID_BODY", "connection type must be reports_to or assistant")
			return
		}
	}
	entity, err := c.assignments.SaveConnections(r.Context(), id, req.Connections)
	if err != nil {
		if errors.Is(err, persistence.ErrAssignmentNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "JOBBOARD_NOT_FOUND", "assignment not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toAssignmentResponse(entity))
}

type chartNodeResponse struct {
	assignmentResponse
	Position    chart.Point `json:"position"`
	Level       int         `json:"level"`
	Pinned      bool        `json:"pinned"`
	CommandPath string      `json:"command_path,omitempty"`
}

type chartEdgeResponse struct {
	Source uuid.UUID `json:"source"`
	Target uuid.UUID `json:"target"`
	Type   string    `json:"type"`
}

type chartResponse struct {
	Nodes    []chartNodeResponse `json:"nodes"`
	Edges    []chartEdgeResponse `json:"edges"`
	Warnings []string            `json:"warnings,omitempty"`
}

func (c *JobBoardAPIController) Chart(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	built, err := c.charts.Build(r.Context())
	if err != nil {
		var cycleErr *chart.CyclicHierarchyError
		if errors.As(err, &cycleErr) {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "JOBBOARD_CYCLIC_HIERARCHY", cycleErr.Error())
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", errors.Wrap(err, "building chart").Error())
		return
	}
	out := chartResponse{
		Nodes:    make([]chartNodeResponse, 0, len(built.Nodes)),
		Edges:    make([]chartEdgeResponse, 0, len(built.Edges)),
		Warnings: built.Warnings,
	}
	for _, n := range built.Nodes {
		out.Nodes = append(out.Nodes, chartNodeResponse{
			assignmentResponse: toAssignmentResponse(n.Assignment),
			Position:           n.Position,
			Level:              n.Level,
			Pinned:             n.Pinned,
			CommandPath:        n.CommandPath,
		})
	}
	for _, e := range built.Edges {
		out.Edges = append(out.Edges, chartEdgeResponse{Source: e.Source, Target: e.Target, Type: string(e.Type)})
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

type savePositionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (c *JobBoardAPIController) SavePosition(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_ID", "id is not a valid uuid")
		return
	}
	var req savePositionRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "JOBBOARD_INVALID_BODY", err.Error())
		return
	}
	if req.X == nil || req.Y == nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "JOBBOARD_INVALID_BODY", "x and y are required")
		return
	}
	if err := c.charts.SavePosition(r.Context(), id, *req.X, *req.Y); err != nil {
		if errors.Is(err, persistence.ErrAssignmentNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "JOBBOARD_NOT_FOUND", "assignment not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *JobBoardAPIController) ResetLayout(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	cleared, err := c.charts.ResetLayout(r.Context())
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "JOBBOARD_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]int64{"cleared": cleared})
}
