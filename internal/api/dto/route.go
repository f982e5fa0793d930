package dto

import (
	"encoding/json"
	"time"
)

type StopResponse struct {
	Sequence int                 `json:"sequence"`
	ID       string              `json:"id"`
	Location CoordinatesResponse `json:"location"`
	IsDepot  bool                `json:"is_depot"`
}

type PlanResponse struct {
	Generation           uint64          `json:"generation"`
	ClusterIndex         int             `json:"cluster_index"`
	Order                []int           `json:"order"`
	Cost                 float64         `json:"cost"`
	ReturnsToDepot       bool            `json:"returns_to_depot"`
	Stops                []StopResponse  `json:"stops"`
	TotalDurationSeconds float64         `json:"total_duration_seconds"`
	Instructions         []string        `json:"instructions"`
	Geometry             json.RawMessage `json:"geometry,omitempty"`
	PlannedAt            time.Time       `json:"planned_at"`
}

type StatusResponse struct {
	Generation   uint64 `json:"generation"`
	ClusterIndex int    `json:"cluster_index"`
	ClusterCount int    `json:"cluster_count"`
	Completed    int    `json:"completed"`
}

type PlanErrorResponse struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type RouteResponse struct {
	Status    StatusResponse     `json:"status"`
	Plan      *PlanResponse      `json:"plan"`
	LastError *PlanErrorResponse `json:"last_error,omitempty"`
}

// TriggerResponse acknowledges a started planning cycle.
type TriggerResponse struct {
	Generation uint64 `json:"generation"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Generation   uint64 `json:"generation"`
	ClusterIndex int    `json:"cluster_index"`
	ClusterCount int    `json:"cluster_count"`
	Completed    int    `json:"completed"`
	HasRoute     bool   `json:"has_route"`
}
