package api

import (
	"encoding/json"
	"net/http"

	"phonedeal-be/internal/utils"
)

const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL"
	CodeConflict       = "CONFLICT"
	CodeMapAuthFailed  = "MAP_AUTH_FAILED"
	CodeMapLoadTimeout = "MAP_LOAD_TIMEOUT"
	CodeMapUnavailable = "MAP_UNAVAILABLE"
)

type envelope struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}

func writeOK(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{OK: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	utils.WriteJSONError(w, status, code, message)
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
