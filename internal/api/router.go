package api

import (
	"cluster-route-service/internal/api/handlers"
	"cluster-route-service/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(orders ports.OrderStore, route handlers.RouteService, stockPath string) http.Handler {
	mux := http.NewServeMux()

	orderHandler := &handlers.OrderHandler{Repo: orders, StockPath: stockPath}
	routeHandler := &handlers.RouteHandler{Service: route}
	healthHandler := &handlers.HealthHandler{Service: route}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/orders", orderHandler.Orders)
	mux.HandleFunc("/orders/stock", orderHandler.Restock)

	mux.HandleFunc("/route", routeHandler.Get)
	mux.HandleFunc("/route/replan", routeHandler.Replan)

	mux.HandleFunc("/clusters/next", routeHandler.NextCluster)
	mux.HandleFunc("/clusters/previous", routeHandler.PreviousCluster)
	mux.HandleFunc("/clusters/select", routeHandler.SelectCluster)
	mux.HandleFunc("/clusters/refresh", routeHandler.RefreshClusters)

	mux.HandleFunc("/deliveries", routeHandler.ListDeliveries)
	mux.HandleFunc("/deliveries/complete", routeHandler.CompleteDelivery)
	mux.HandleFunc("/deliveries/reset", routeHandler.ResetDeliveries)

	return requestIDMiddleware(loggingMiddleware(mux))
}
