package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
	"github.com/wingtrack/wingtrack/pkg/middleware"
	"github.com/wingtrack/wingtrack/pkg/spotlight"
)

// SearchAPIController exposes fuzzy quick search over every data source
// the feature modules registered.
type SearchAPIController struct {
	app      application.Application
	search   *spotlight.Spotlight
	basePath string
}

func NewSearchAPIController(app application.Application) application.Controller {
	return &SearchAPIController{
		app:      app,
		search:   app.Service(spotlight.Spotlight{}).(*spotlight.Spotlight),
		basePath: "/api/v1/search",
	}
}

func (c *SearchAPIController) Key() string {
	return c.basePath
}

func (c *SearchAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireTenant())
	router.HandleFunc("", c.Find).Methods(http.MethodGet)
}

func (c *SearchAPIController) Find(w http.ResponseWriter, r *http.Request) {
	requestID := httpapi.EnsureRequestID(r)
	hits, err := c.search.Find(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, requestID, "CORE_INTERNAL", err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, hits)
}
