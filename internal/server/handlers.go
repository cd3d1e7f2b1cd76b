package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// parseQueryInt reads an integer query parameter, falling back to a default
// and capping at maxValue when maxValue > 0.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// pathUUID parses a UUID path value.
func pathUUID(r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
