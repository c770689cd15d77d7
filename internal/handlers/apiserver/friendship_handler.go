package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"nightout/internal/middleware"
	"nightout/internal/models"
	"nightout/internal/services"
)

// FriendshipHandler handles HTTP requests for the friendship graph.
type FriendshipHandler struct {
	friendshipService services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler.
func NewFriendshipHandler(fs services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: fs}
}

// RequestFriendshipPayload is the JSON body for sending a friend request.
type RequestFriendshipPayload struct {
	AddresseeID uint `json:"addresseeId"`
}

// RequestFriendshipHandler handles POST /api/v1/friend-requests
func (h *FriendshipHandler) RequestFriendshipHandler(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	var payload RequestFriendshipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, KindInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.AddresseeID == 0 {
		writeJSONError(w, KindInvalidRequest, "missing addresseeId", http.StatusBadRequest)
		return
	}

	friendship, err := h.friendshipService.RequestFriendship(r.Context(), requesterID, payload.AddresseeID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRequest):
			writeJSONError(w, KindInvalidRequest, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrUserNotFound):
			writeJSONError(w, KindNotFound, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrDuplicateFriendship):
			writeJSONError(w, KindDuplicateRequest, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error sending friend request from %d to %d: %v", requesterID, payload.AddresseeID, err)
			writeJSONError(w, KindInternal, "failed to send friend request", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusCreated, friendship)
}

// AcceptFriendshipHandler handles POST /api/v1/friend-requests/{requestID}/accept
func (h *FriendshipHandler) AcceptFriendshipHandler(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.friendshipService.AcceptFriendship, "accepted")
}

// RejectFriendshipHandler handles POST /api/v1/friend-requests/{requestID}/reject
func (h *FriendshipHandler) RejectFriendshipHandler(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.friendshipService.RejectFriendship, "rejected")
}

// resolveRequest is the shared accept/reject path: same route shape, same
// guards, same error mapping.
func (h *FriendshipHandler) resolveRequest(w http.ResponseWriter, r *http.Request, resolve func(ctx context.Context, friendshipID, actingUserID uint) error, verb string) {
	actingUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	requestIDStr, ok := mux.Vars(r)["requestID"]
	if !ok {
		writeJSONError(w, KindInvalidRequest, "missing friend request id", http.StatusBadRequest)
		return
	}
	requestID, err := strconv.ParseUint(requestIDStr, 10, 32)
	if err != nil {
		writeJSONError(w, KindInvalidRequest, "invalid friend request id", http.StatusBadRequest)
		return
	}

	if err := resolve(r.Context(), uint(requestID), actingUserID); err != nil {
		switch {
		case errors.Is(err, services.ErrFriendshipNotFound):
			writeJSONError(w, KindNotFound, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotAddressee):
			writeJSONError(w, KindNotAuthorized, err.Error(), http.StatusForbidden)
		case errors.Is(err, services.ErrNotPending):
			writeJSONError(w, KindInvalidState, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error resolving friend request %d by user %d: %v", requestID, actingUserID, err)
			writeJSONError(w, KindInternal, "failed to process friend request", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "friend request " + verb})
}

// ListPendingRequestsHandler handles GET /api/v1/friend-requests/pending
func (h *FriendshipHandler) ListPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	pending, err := h.friendshipService.ListPendingRequests(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching pending requests for user %d: %v", userID, err)
		writeJSONError(w, KindInternal, "failed to fetch pending requests", http.StatusInternalServerError)
		return
	}
	if pending == nil {
		pending = []*models.FriendshipWithRequester{}
	}

	writeJSONResponse(w, http.StatusOK, pending)
}

// ListFriendsHandler handles GET /api/v1/friends
func (h *FriendshipHandler) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	friends, err := h.friendshipService.ListFriends(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching friends list for user %d: %v", userID, err)
		writeJSONError(w, KindInternal, "failed to fetch friends", http.StatusInternalServerError)
		return
	}
	if friends == nil {
		friends = []*models.UserBasicInfo{}
	}

	writeJSONResponse(w, http.StatusOK, friends)
}
