package shared

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ParseUUID extracts the {id} route variable as a uuid.
func ParseUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
