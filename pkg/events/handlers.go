package events

import (
	"encoding/json"
	"net/http"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/listener"
)

// EventPayload is the body of an event delivery. Only LOGIN events carry
// behavior here; other types are acknowledged and ignored.
type EventPayload struct {
	Type    string `json:"type"`
	RealmID string `json:"realm_id"`
	UserID  string `json:"user_id"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (s *Server) handleLoginEvent(w http.ResponseWriter, r *http.Request) {
	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed event payload", http.StatusBadRequest)
		return
	}

	if payload.Type != "" && payload.Type != "LOGIN" {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if payload.RealmID == "" || payload.UserID == "" {
		http.Error(w, "realm_id and user_id are required", http.StatusBadRequest)
		return
	}

	event := listener.LoginEvent{RealmID: payload.RealmID, UserID: payload.UserID}
	if err := s.Listener.OnLogin(r.Context(), event); err != nil {
		// The platform retries on 5xx; conversion is replay safe
		http.Error(w, "event processing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if s.DB != nil {
		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
