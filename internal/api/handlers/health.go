package handlers

import (
	"cluster-route-service/internal/api/dto"
	"net/http"
)

// HealthHandler reports liveness along with the planner's current position.
type HealthHandler struct {
	Service RouteService
}

// Health answers 200 whenever the process is serving. has_route stays false
// until the first planning cycle succeeds.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st := h.Service.Status()
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:       "ok",
		Generation:   st.Generation,
		ClusterIndex: st.ClusterIndex,
		ClusterCount: st.ClusterCount,
		Completed:    st.Completed,
		HasRoute:     st.HasRoute,
	})
}
