package web

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/client/models"
)

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	Bootstrapped  bool         `json:"bootstrapped"`
	Loading       bool         `json:"loading"`
	Error         string       `json:"error,omitempty"`
	User          *models.User `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
