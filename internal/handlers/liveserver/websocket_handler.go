package liveserver

import (
	"log"
	"net/http"
	"strings"

	"nightout/internal/auth"
	"nightout/internal/config"
	ws "nightout/internal/websocket"
)

// WebSocketHandler handles live-feed websocket connection requests.
type WebSocketHandler struct {
	hub            *ws.Hub
	tokenBlacklist auth.TokenBlacklist
	cfg            config.Config
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(hub *ws.Hub, tokenBlacklist auth.TokenBlacklist, cfg config.Config) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		tokenBlacklist: tokenBlacklist,
		cfg:            cfg,
	}
}

// ServeWS handles GET /ws?city=&token=. The token is the same session JWT
// the API server issues; the city names the room to join.
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateToken(r.Context(), token, h.cfg.Auth.JWTSecretKey, h.tokenBlacklist)
	if err != nil {
		log.Printf("WebSocket connection rejected, invalid token: %v", err)
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		http.Error(w, "missing city parameter", http.StatusBadRequest)
		return
	}

	ws.ServeWsPerConnection(h.hub, claims.UserID, city, w, r, h.cfg.WebSocket)
}
