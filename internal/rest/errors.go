package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hupe1980/btreego"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// The status line is already on the wire; an encode failure here can
	// only mean a dead connection.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Code:    status,
		Message: message,
	})
}

// mapStoreError translates database errors into HTTP responses.
func mapStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, btreego.ErrTableNotFound):
		writeError(w, http.StatusNotFound, "table_not_found", err.Error())
	case errors.Is(err, btreego.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, btreego.ErrTableExists):
		writeError(w, http.StatusConflict, "table_exists", err.Error())
	case errors.Is(err, btreego.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, "invalid_key", err.Error())
	case errors.Is(err, btreego.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, "invalid_order", err.Error())
	case errors.Is(err, btreego.ErrInvalidTableName):
		writeError(w, http.StatusBadRequest, "invalid_table_name", err.Error())
	case errors.Is(err, btreego.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "database_closed", err.Error())
	case errors.Is(err, btreego.ErrNoStore):
		writeError(w, http.StatusBadRequest, "no_store", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
