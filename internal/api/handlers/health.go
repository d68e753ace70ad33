package handlers

import "net/http"

// Health is a minimal liveness check, kept from the teacher's health.go.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
