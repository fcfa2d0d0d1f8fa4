package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/cadet"
	"github.com/wingtrack/wingtrack/modules/core/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/core/services"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/composables"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
	"github.com/wingtrack/wingtrack/pkg/middleware"
	"github.com/wingtrack/wingtrack/pkg/shared"
)

type CadetAPIController struct {
	app      application.Application
	cadets   *services.CadetService
	basePath string
}

func NewCadetAPIController(app application.Application) application.Controller {
	return &CadetAPIController{
		app:      app,
		cadets:   app.Service(services.CadetService{}).(*services.CadetService),
		basePath: "/api/v1/core/cadets",
	}
}

func (c *CadetAPIController) Key() string {
	return c.basePath
}

func (c *CadetAPIController) Register(r *mux.Router) {
	getRouter := r.PathPrefix(c.basePath).Subrouter()
	getRouter.Use(middleware.RequireTenant())
	getRouter.HandleFunc("", c.List).Methods(http.MethodGet)
	getRouter.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	setRouter := r.PathPrefix(c.basePath).Subrouter()
	setRouter.Use(middleware.RequireTenant(), middleware.WithTransaction())
	setRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	setRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPatch)
	setRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

type cadetResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Rank      string    `json:"rank"`
	Flight    string    `json:"flight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCadetResponse(c *cadet.Cadet) cadetResponse {
	return cadetResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Rank:      c.Rank,
		Flight:    c.Flight,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c *CadetAPIController) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	params := composables.UsePaginated(r)
	entities, err := c.cadets.GetPaginated(r.Context(), &cadet.FindParams{
		Limit:  params.Limit,
		Offset: params.Offset,
		Flight: strings.TrimSpace(r.URL.Query().Get("flight")),
	})
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", errors.Wrap(err, "retrieving cadets").Error())
		return
	}
	out := make([]cadetResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, toCadetResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *CadetAPIController) Get(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CORE_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.cadets.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrCadetNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "CORE_NOT_FOUND", "cadet not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toCadetResponse(entity))
}

type cadetRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Rank      string `json:"rank"`
	Flight    string `json:"flight"`
}

func (c *CadetAPIController) Create(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var req cadetRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CORE_INVALID_BODY", err.Error())
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "CORE_INVALID_BODY", "first_name and last_name are required")
		return
	}
	entity := cadet.New(req.FirstName, req.LastName, req.Rank, req.Flight)
	if err := c.cadets.Create(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toCadetResponse(entity))
}

func (c *CadetAPIController) Update(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CORE_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.cadets.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrCadetNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "CORE_NOT_FOUND", "cadet not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", err.Error())
		return
	}
	var req cadetRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CORE_INVALID_BODY", err.Error())
		return
	}
	if req.FirstName != "" {
		entity.FirstName = req.FirstName
	}
	if req.LastName != "" {
		entity.LastName = req.LastName
	}
	if req.Rank != "" {
		entity.Rank = req.Rank
	}
	if req.Flight != "" {
		entity.Flight = req.Flight
	}
	if err := c.cadets.Update(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toCadetResponse(entity))
}

func (c *CadetAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "CORE_INVALID_ID", "id is not a valid uuid")
		return
	}
	if err := c.cadets.Delete(r.Context(), id); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
