package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/inspection"
	"github.com/wingtrack/wingtrack/modules/records/domain/entities/pttest"
	"github.com/wingtrack/wingtrack/modules/records/domain/entities/servicehours"
	"github.com/wingtrack/wingtrack/modules/records/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/records/services"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/composables"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
	"github.com/wingtrack/wingtrack/pkg/middleware"
	"github.com/wingtrack/wingtrack/pkg/shared"
)

type RecordsAPIController struct {
	app          application.Application
	serviceHours *services.ServiceHoursService
	ptTests      *services.PTTestService
	inspections  *services.InspectionService
	validate     *validator.Validate
	basePath     string
}

func NewRecordsAPIController(app application.Application) application.Controller {
	return &RecordsAPIController{
		app:          app,
		serviceHours: app.Service(services.ServiceHoursService{}).(*services.ServiceHoursService),
		ptTests:      app.Service(services.PTTestService{}).(*services.PTTestService),
		inspections:  app.Service(services.InspectionService{}).(*services.InspectionService),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		basePath:     "/api/v1/records",
	}
}

func (c *RecordsAPIController) Key() string {
	return c.basePath
}

func (c *RecordsAPIController) Register(r *mux.Router) {
	getRouter := r.PathPrefix(c.basePath).Subrouter()
	getRouter.Use(middleware.RequireTenant())
	getRouter.HandleFunc("/service-hours", c.ListServiceHours).Methods(http.MethodGet)
	getRouter.HandleFunc("/service-hours/{id}", c.GetServiceHours).Methods(http.MethodGet)
	getRouter.HandleFunc("/pt-tests", c.ListPTTests).Methods(http.MethodGet)
	getRouter.HandleFunc("/pt-tests/{id}", c.GetPTTest).Methods(http.MethodGet)
	getRouter.HandleFunc("/inspections", c.ListInspections).Methods(http.MethodGet)
	getRouter.HandleFunc("/inspections/{id}", c.GetInspection).Methods(http.MethodGet)

	setRouter := r.PathPrefix(c.basePath).Subrouter()
	setRouter.Use(middleware.RequireTenant(), middleware.WithTransaction())
	setRouter.HandleFunc("/service-hours", c.CreateServiceHours).Methods(http.MethodPost)
	setRouter.HandleFunc("/service-hours/{id}", c.UpdateServiceHours).Methods(http.MethodPatch)
	setRouter.HandleFunc("/service-hours/{id}", c.DeleteServiceHours).Methods(http.MethodDelete)
	setRouter.HandleFunc("/pt-tests", c.CreatePTTest).Methods(http.MethodPost)
	setRouter.HandleFunc("/pt-tests/{id}", c.UpdatePTTest).Methods(http.MethodPatch)
	setRouter.HandleFunc("/pt-tests/{id}", c.DeletePTTest).Methods(http.MethodDelete)
	setRouter.HandleFunc("/inspections", c.CreateInspection).Methods(http.MethodPost)
	setRouter.HandleFunc("/inspections/{id}", c.UpdateInspection).Methods(http.MethodPatch)
	setRouter.HandleFunc("/inspections/{id}", c.DeleteInspection).Methods(http.MethodDelete)
}

func (c *RecordsAPIController) cadetFilter(r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("cadet_id")
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

type serviceHoursRequest struct {
	CadetID      uuid.UUID `json:"cadet_id" validate:"required"`
	ActivityDate time.Time `json:"activity_date" validate:"required"`
	Hours        float64   `json:"hours" validate:"required,gt=0,lte=24"`
	Organization string    `json:"organization"`
	Description  string    `json:"description"`
	Status       string    `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

type serviceHoursResponse struct {
	ID           uuid.UUID `json:"id"`
	CadetID      uuid.UUID `json:"cadet_id"`
	ActivityDate time.Time `json:"activity_date"`
	Hours        float64   `json:"hours"`
	Organization string    `json:"organization"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toServiceHoursResponse(e *servicehours.Entry) serviceHoursResponse {
	return serviceHoursResponse{
		ID:           e.ID,
		CadetID:      e.CadetID,
		ActivityDate: e.ActivityDate,
		Hours:        e.Hours,
		Organization: e.Organization,
		Description:  e.Description,
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (c *RecordsAPIController) ListServiceHours(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	cadetID, ok := c.cadetFilter(r)
	if !ok {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_FILTER", "cadet_id is not a valid uuid")
		return
	}
	params := composables.UsePaginated(r)
	entities, err := c.serviceHours.GetPaginated(r.Context(), &servicehours.FindParams{
		CadetID: cadetID,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", errors.Wrap(err, "retrieving service hours").Error())
		return
	}
	out := make([]serviceHoursResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, toServiceHoursResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *RecordsAPIController) GetServiceHours(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.serviceHours.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrServiceHoursNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "RECORDS_NOT_FOUND", "service hours entry not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toServiceHoursResponse(entity))
}

func (c *RecordsAPIController) CreateServiceHours(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var req serviceHoursRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	entity := servicehours.New(req.CadetID, req.ActivityDate, req.Hours)
	entity.Organization = req.Organization
	entity.Description = req.Description
	if req.Status != "" {
		entity.Status = servicehours.Status(req.Status)
	}
	if err := c.serviceHours.Create(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toServiceHoursResponse(entity))
}

func (c *RecordsAPIController) UpdateServiceHours(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.serviceHours.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrServiceHoursNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "RECORDS_NOT_FOUND", "service hours entry not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	var req serviceHoursRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if req.CadetID != uuid.Nil {
		entity.CadetID = req.CadetID
	}
	if !req.ActivityDate.IsZero() {
		entity.ActivityDate = req.ActivityDate
	}
	if req.Hours > 0 {
		entity.Hours = req.Hours
	}
	if req.Organization != "" {
		entity.Organization = req.Organization
	}
	if req.Description != "" {
		entity.Description = req.Description
	}
	if req.Status != "" {
		entity.Status = servicehours.Status(req.Status)
	}
	if entity.Hours <= 0 || entity.Hours > 24 {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "RECORDS_INVALID_BODY", "hours must be between 0 and 24")
		return
	}
	if err := c.serviceHours.Update(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toServiceHoursResponse(entity))
}

func (c *RecordsAPIController) DeleteServiceHours(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	if err := c.serviceHours.Delete(r.Context(), id); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ptTestRequest struct {
	CadetID    uuid.UUID `json:"cadet_id" validate:"required"`
	TestDate   time.Time `json:"test_date" validate:"required"`
	Pushups    int       `json:"pushups" validate:"gte=0,lte=500"`
	Situps     int       `json:"situps" validate:"gte=0,lte=500"`
	RunSeconds int       `json:"run_seconds" validate:"gte=0,lte=7200"`
}

type ptTestResponse struct {
	ID         uuid.UUID `json:"id"`
	CadetID    uuid.UUID `json:"cadet_id"`
	TestDate   time.Time `json:"test_date"`
	Pushups    int       `json:"pushups"`
	Situps     int       `json:"situps"`
	RunSeconds int       `json:"run_seconds"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toPTTestResponse(r *pttest.Result) ptTestResponse {
	return ptTestResponse{
		ID:         r.ID,
		CadetID:    r.CadetID,
		TestDate:   r.TestDate,
		Pushups:    r.Pushups,
		Situps:     r.Situps,
		RunSeconds: r.RunSeconds,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (c *RecordsAPIController) ListPTTests(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	cadetID, ok := c.cadetFilter(r)
	if !ok {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_FILTER", "cadet_id is not a valid uuid")
		return
	}
	params := composables.UsePaginated(r)
	entities, err := c.ptTests.GetPaginated(r.Context(), &pttest.FindParams{
		CadetID: cadetID,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", errors.Wrap(err, "retrieving pt tests").Error())
		return
	}
	out := make([]ptTestResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, toPTTestResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *RecordsAPIController) GetPTTest(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.ptTests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrPTTestNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "RECORDS_NOT_FOUND", "pt test not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toPTTestResponse(entity))
}

func (c *RecordsAPIController) CreatePTTest(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var req ptTestRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	entity := pttest.New(req.CadetID, req.TestDate)
	entity.Pushups = req.Pushups
	entity.Situps = req.Situps
	entity.RunSeconds = req.RunSeconds
	if err := c.ptTests.Create(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toPTTestResponse(entity))
}

func (c *RecordsAPIController) UpdatePTTest(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.ptTests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrPTTestNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "RECORDS_NOT_FOUND", "pt test not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	var req ptTestRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if req.CadetID != uuid.Nil {
		entity.CadetID = req.CadetID
	}
	if !req.TestDate.IsZero() {
		entity.TestDate = req.TestDate
	}
	if req.Pushups > 0 {
		entity.Pushups = req.Pushups
	}
	if req.Situps > 0 {
		entity.Situps = req.Situps
	}
	if req.RunSeconds > 0 {
		entity.RunSeconds = req.RunSeconds
	}
	if err := c.ptTests.Update(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toPTTestResponse(entity))
}

func (c *RecordsAPIController) DeletePTTest(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	if err := c.ptTests.Delete(r.Context(), id); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type inspectionRequest struct {
	CadetID        uuid.UUID `json:"cadet_id" validate:"required"`
	InspectionDate time.Time `json:"inspection_date" validate:"required"`
	Score          *int      `json:"score" validate:"required"`
	Notes          string    `json:"notes"`
}

type inspectionResponse struct {
	ID             uuid.UUID `json:"id"`
	CadetID        uuid.UUID `json:"cadet_id"`
	InspectionDate time.Time `json:"inspection_date"`
	Score          int       `json:"score"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toInspectionResponse(i *inspection.Inspection) inspectionResponse {
	return inspectionResponse{
		ID:             i.ID,
		CadetID:        i.CadetID,
		InspectionDate: i.InspectionDate,
		Score:          i.Score,
		Notes:          i.Notes,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func (c *RecordsAPIController) ListInspections(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	cadetID, ok := c.cadetFilter(r)
	if !ok {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_FILTER", "cadet_id is not a valid uuid")
		return
	}
	params := composables.UsePaginated(r)
	entities, err := c.inspections.GetPaginated(r.Context(), &inspection.FindParams{
		CadetID: cadetID,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", errors.Wrap(err, "retrieving inspections").Error())
		return
	}
	out := make([]inspectionResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, toInspectionResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *RecordsAPIController) GetInspection(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.inspections.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrInspectionNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "RECORDS_NOT_FOUND", "inspection not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toInspectionResponse(entity))
}

func (c *RecordsAPIController) CreateInspection(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	var req inspectionRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if *req.Score < 0 || *req.Score > 100 {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "RECORDS_INVALID_BODY", "score must be between 0 and 100")
		return
	}
	entity := inspection.New(req.CadetID, req.InspectionDate, *req.Score)
	entity.Notes = req.Notes
	if err := c.inspections.Create(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toInspectionResponse(entity))
}

func (c *RecordsAPIController) UpdateInspection(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	entity, err := c.inspections.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrInspectionNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, requestID, "RECORDS_NOT_FOUND", "inspection not found")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	var req inspectionRequest
	if err := httpapi.DecodeJSON(r.Body, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_BODY", err.Error())
		return
	}
	if req.CadetID != uuid.Nil {
		entity.CadetID = req.CadetID
	}
	if !req.InspectionDate.IsZero() {
		entity.InspectionDate = req.InspectionDate
	}
	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, requestID, "RECORDS_INVALID_BODY", "score must be between 0 and 100")
			return
		}
		entity.Score = *req.Score
	}
	if req.Notes != "" {
		entity.Notes = req.Notes
	}
	if err := c.inspections.Update(r.Context(), entity); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toInspectionResponse(entity))
}

func (c *RecordsAPIController) DeleteInspection(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	id, err := shared.ParseUUID(r)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "RECORDS_INVALID_ID", "id is not a valid uuid")
		return
	}
	if err := c.inspections.Delete(r.Context(), id); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "RECORDS_INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
