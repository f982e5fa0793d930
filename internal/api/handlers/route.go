package handlers

import (
	"cluster-route-service/internal/api/dto"
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/services"
	"context"
	"errors"
	"log"
	"net/http"
)

// RouteService is the planning surface the HTTP layer drives.
type RouteService interface {
	Current() (*domain.RoutePlan, error)
	Status() services.Status
	Completed() []domain.Coordinates

	Refresh(ctx context.Context) (*services.Cycle, error)
	Next() *services.Cycle
	Previous() *services.Cycle
	Select(i int) (*services.Cycle, error)
	Replan() *services.Cycle
	Complete(ctx context.Context, c domain.Coordinates) (*services.Cycle, bool)
	ResetProgress(ctx context.Context) *services.Cycle
}

// RouteHandler serves the current route and the triggers that re-plan it.
// Triggers answer 202 with the new generation; ?wait=true blocks until the
// cycle finishes and answers with the resulting route instead.
type RouteHandler struct {
	Service RouteService
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.routeResponse())
}

func (h *RouteHandler) Replan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.respondCycle(w, r, h.Service.Replan())
}

func (h *RouteHandler) NextCluster(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.respondCycle(w, r, h.Service.Next())
}

func (h *RouteHandler) PreviousCluster(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.respondCycle(w, r, h.Service.Previous())
}

func (h *RouteHandler) SelectCluster(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SelectClusterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cycle, err := h.Service.Select(*req.Index)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.respondCycle(w, r, cycle)
}

func (h *RouteHandler) RefreshClusters(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	cycle, err := h.Service.Refresh(r.Context())
	if err != nil {
		log.Printf("refresh clusters failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "cluster refresh failed")
		return
	}
	h.respondCycle(w, r, cycle)
}

func (h *RouteHandler) CompleteDelivery(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CompleteDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cycle, added := h.Service.Complete(r.Context(), domain.Coordinates{Lon: *req.Lon, Lat: *req.Lat})
	if wantsWait(r) {
		h.waitAndRespond(w, r, cycle)
		return
	}

	writeJSON(w, r, http.StatusAccepted, dto.CompleteDeliveryResponse{
		Generation: cycle.Generation,
		Added:      added,
	})
}

func (h *RouteHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	completed := h.Service.Completed()
	res := dto.ListDeliveriesResponse{Completed: make([]dto.CoordinatesResponse, 0, len(completed))}
	for _, c := range completed {
		res.Completed = append(res.Completed, dto.CoordinatesResponse{Lon: c.Lon, Lat: c.Lat})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) ResetDeliveries(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.respondCycle(w, r, h.Service.ResetProgress(r.Context()))
}

func (h *RouteHandler) respondCycle(w http.ResponseWriter, r *http.Request, cycle *services.Cycle) {
	if wantsWait(r) {
		h.waitAndRespond(w, r, cycle)
		return
	}
	writeJSON(w, r, http.StatusAccepted, dto.TriggerResponse{Generation: cycle.Generation})
}

func (h *RouteHandler) waitAndRespond(w http.ResponseWriter, r *http.Request, cycle *services.Cycle) {
	if err := cycle.Wait(r.Context()); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, r, http.StatusServiceUnavailable, "planning did not finish")
			return
		}
		writeJSON(w, r, statusForError(err), h.routeResponse())
		return
	}
	writeJSON(w, r, http.StatusOK, h.routeResponse())
}

func (h *RouteHandler) routeResponse() dto.RouteResponse {
	plan, lastErr := h.Service.Current()
	st := h.Service.Status()

	res := dto.RouteResponse{
		Status: dto.StatusResponse{
			Generation:   st.Generation,
			ClusterIndex: st.ClusterIndex,
			ClusterCount: st.ClusterCount,
			Completed:    st.Completed,
		},
	}

	if plan != nil {
		res.Plan = toPlanResponse(plan)
	}
	if lastErr != nil {
		res.LastError = &dto.PlanErrorResponse{
			Category: string(domain.CategoryOf(lastErr)),
			Message:  lastErr.Error(),
		}
	}
	return res
}

func toPlanResponse(p *domain.RoutePlan) *dto.PlanResponse {
	stops := make([]dto.StopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, dto.StopResponse{
			Sequence: s.Sequence,
			ID:       s.Waypoint.ID,
			Location: dto.CoordinatesResponse{Lon: s.Waypoint.Coordinates.Lon, Lat: s.Waypoint.Coordinates.Lat},
			IsDepot:  s.Waypoint.IsDepot,
		})
	}

	return &dto.PlanResponse{
		Generation:           p.Generation,
		ClusterIndex:         p.ClusterIndex,
		Order:                p.Tour.Order,
		Cost:                 p.Tour.Cost,
		ReturnsToDepot:       p.Tour.ReturnsToDepot,
		Stops:                stops,
		TotalDurationSeconds: p.Directions.TotalDurationSeconds,
		Instructions:         p.Directions.Instructions,
		Geometry:             p.Directions.Geometry,
		PlannedAt:            p.PlannedAt,
	}
}
