package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"nightout/internal/middleware"
	"nightout/internal/services"
)

// PlanHandler handles HTTP requests for the plan ledger.
type PlanHandler struct {
	planService services.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(ps services.PlanService) *PlanHandler {
	return &PlanHandler{planService: ps}
}

// SetPlanPayload is the JSON body for creating or replacing a plan.
type SetPlanPayload struct {
	VenueID uint `json:"venueId"`
}

// SetPlanHandler handles POST /api/v1/plans. It replaces any previous plan
// the caller holds in the venue's city and echoes the new plan.
func (h *PlanHandler) SetPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	var payload SetPlanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, KindInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	plan, err := h.planService.SetPlan(r.Context(), userID, payload.VenueID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingVenue), errors.Is(err, services.ErrMissingCity):
			writeJSONError(w, KindInvalidRequest, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrVenueNotFound):
			writeJSONError(w, KindNotFound, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrConcurrentPlanWrite):
			writeJSONError(w, KindConflict, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error setting plan for user %d at venue %d: %v", userID, payload.VenueID, err)
			writeJSONError(w, KindInternal, "failed to set plan", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"plan": plan})
}

// ClearPlanHandler handles DELETE /api/v1/plans?city=. Idempotent: clearing
// an absent plan succeeds.
func (h *PlanHandler) ClearPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSONError(w, KindInvalidRequest, "missing city parameter", http.StatusBadRequest)
		return
	}

	if err := h.planService.ClearPlan(r.Context(), userID, city); err != nil {
		log.Printf("Error clearing plan for user %d in %s: %v", userID, city, err)
		writeJSONError(w, KindInternal, "failed to clear plan", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]bool{"cleared": true})
}

// ListPlansHandler handles GET /api/v1/plans?city=
func (h *PlanHandler) ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSONError(w, KindInvalidRequest, "missing city parameter", http.StatusBadRequest)
		return
	}

	plans, err := h.planService.ListPlans(r.Context(), city)
	if err != nil {
		log.Printf("Error listing plans for %s: %v", city, err)
		writeJSONError(w, KindInternal, "failed to list plans", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"city": city, "plans": plans})
}
