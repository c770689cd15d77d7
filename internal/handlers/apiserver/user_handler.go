package apiserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"nightout/internal/middleware"
	"nightout/internal/services"
)

// UserHandler handles user profile HTTP requests.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMyProfileHandler handles GET /api/v1/users/me
func (h *UserHandler) GetMyProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetUserProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSONError(w, KindNotFound, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Error loading profile for user %d: %v", userID, err)
		writeJSONError(w, KindInternal, "failed to load profile", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, user)
}

// SearchUsersHandler handles GET /api/v1/users/search?q=
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSONError(w, KindInvalidRequest, "missing search query (q)", http.StatusBadRequest)
		return
	}

	users, err := h.userService.SearchUsers(r.Context(), query, userID)
	if err != nil {
		log.Printf("Error searching users for %q: %v", query, err)
		writeJSONError(w, KindInternal, "user search failed", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, users)
}
