package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wingtrack/wingtrack/pkg/composables"
	"github.com/wingtrack/wingtrack/pkg/configuration"
	"github.com/wingtrack/wingtrack/pkg/httpapi"
)

// RequireTenant resolves the school scope forwarded by the upstream auth
// layer and places it into the request context. Requests without a valid
// scope never reach a handler.
func RequireTenant() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(conf.TenantIDHeader))
			if raw == "" {
				httpapi.WriteError(w, http.StatusUnauthorized, httpapi.EnsureRequestID(r), "NO_TENANT", "missing school scope")
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				httpapi.WriteError(w, http.StatusUnauthorized, httpapi.EnsureRequestID(r), "INVALID_TENANT", "school scope is not a valid id")
				return
			}
			ctx := composables.WithTenantID(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
