package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"nightout/internal/auth"
	"nightout/internal/config"
	"nightout/internal/middleware"
	"nightout/internal/services"
)

// SessionHandler exchanges upstream-verified identities for session tokens
// and handles logout. The OAuth handshake itself happens upstream; this
// handler only consumes its result.
type SessionHandler struct {
	identityService services.IdentityService
	tokenBlacklist  auth.TokenBlacklist
	authCfg         config.AuthConfig
}

// NewSessionHandler creates a new SessionHandler instance.
func NewSessionHandler(identityService services.IdentityService, tokenBlacklist auth.TokenBlacklist, authCfg config.AuthConfig) *SessionHandler {
	return &SessionHandler{
		identityService: identityService,
		tokenBlacklist:  tokenBlacklist,
		authCfg:         authCfg,
	}
}

// ExchangeRequest is the verified identity the gateway posts after a
// successful upstream login.
type ExchangeRequest struct {
	Subject     string `json:"subject"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// ExchangeResponse carries the issued session token. UserID is 0 when the
// identity is degraded (store unavailable during sync).
type ExchangeResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId,omitempty"`
}

// ExchangeHandler handles POST /auth/session. Identity sync is best-effort:
// when the store is down the login still succeeds with a degraded identity,
// since verification already happened upstream.
func (h *SessionHandler) ExchangeHandler(w http.ResponseWriter, r *http.Request) {
	if h.authCfg.GatewayKey == "" || r.Header.Get("X-Gateway-Key") != h.authCfg.GatewayKey {
		writeJSONError(w, KindNotAuthorized, "invalid gateway key", http.StatusUnauthorized)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, KindInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Email == "" {
		writeJSONError(w, KindInvalidRequest, "missing email", http.StatusBadRequest)
		return
	}

	var userID uint
	user, err := h.identityService.SyncIdentity(r.Context(), req.Subject, req.Email, req.DisplayName, req.AvatarURL)
	switch {
	case err == nil:
		userID = user.ID
	case errors.Is(err, services.ErrMissingEmail):
		writeJSONError(w, KindInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	default:
		// Degraded identity: token without a local id.
		log.Printf("Identity sync failed for %s, continuing degraded: %v", req.Email, err)
	}

	token, err := auth.GenerateToken(userID, req.Email, h.authCfg)
	if err != nil {
		log.Printf("Error issuing session token for %s: %v", req.Email, err)
		writeJSONError(w, KindInternal, "failed to issue session token", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, ExchangeResponse{Token: token, UserID: userID})
}

// LogoutHandler handles POST /api/v1/auth/logout by blacklisting the JTI of
// the presented token until its natural expiry.
func (h *SessionHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "not authenticated", http.StatusUnauthorized)
		return
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		writeJSONError(w, KindInternal, "token has no JTI or expiry", http.StatusInternalServerError)
		return
	}

	if err := h.tokenBlacklist.Add(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Printf("Error blacklisting JTI %s: %v", claims.ID, err)
		writeJSONError(w, KindUnavailable, "logout failed", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
