package controllers

import (
	"net/http"
	"strings"

	"github.com/kdiomande/maillots/pkg/auth"
	"github.com/kdiomande/maillots/pkg/response"
	"github.com/kdiomande/maillots/pkg/ws"
)

// StreamController upgrades admin dashboards to the live order feed.
type StreamController struct {
	hub *ws.Hub
}

func NewStreamController(hub *ws.Hub) *StreamController {
	return &StreamController{hub: hub}
}

// Feed handles GET /commandes/stream. Browsers cannot set headers on a
// WebSocket handshake, so the session token is also accepted as a ?token=
// query parameter. Validation happens before the upgrade; the same 401
// contract as the REST routes applies.
func (c *StreamController) Feed(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "Token manquant")
			return
		}
		token = strings.TrimPrefix(header, "Bearer ")
	}

	if _, err := auth.ValidateToken(token); err != nil {
		response.Error(w, http.StatusUnauthorized, "Token invalide")
		return
	}

	ws.Upgrade(w, r, c.hub)
}
