package apiserver

import (
	"log"
	"net/http"
	"strings"

	"nightout/internal/middleware"
	"nightout/internal/services"
)

// AttendanceHandler serves the per-city venue list with attendance counts.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

// ListVenuesHandler handles GET /api/v1/venues?city=. Every venue in the
// city is returned with its total attendance and the count scoped to the
// caller's accepted friends.
func (h *AttendanceHandler) ListVenuesHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, KindNotAuthorized, "no local identity for this session", http.StatusUnauthorized)
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSONError(w, KindInvalidRequest, "missing city parameter", http.StatusBadRequest)
		return
	}

	venues, err := h.attendanceService.Attendance(r.Context(), city, viewerID)
	if err != nil {
		log.Printf("Error aggregating attendance for %s (viewer %d): %v", city, viewerID, err)
		writeJSONError(w, KindInternal, "failed to load venues", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"city": city, "venues": venues})
}
