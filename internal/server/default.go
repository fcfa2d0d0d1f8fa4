package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/configuration"
	"github.com/wingtrack/wingtrack/pkg/constants"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
	"github.com/wingtrack/wingtrack/pkg/middleware"
	"github.com/wingtrack/wingtrack/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.Cors(options.Configuration.Origin, "http://localhost:3000"),
		middleware.RequestParams(),
	}
	app.RegisterMiddleware(middlewares...)

	serverInstance := server.NewHTTPServer(
		app,
		notFoundHandler(),
		methodNotAllowedHandler(),
	)
	return serverInstance, nil
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, http.StatusNotFound, httpapi.EnsureRequestID(r), "NOT_FOUND", "resource not found")
	})
}

func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, http.StatusMethodNotAllowed, httpapi.EnsureRequestID(r), "METHOD_NOT_ALLOWED", "method not allowed")
	})
}
