package handlers

import (
	"cluster-route-service/internal/api/dto"
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
)

// OrderHandler exposes order listing, creation and restocking.
type OrderHandler struct {
	Repo ports.OrderStore
	// Seed file reloaded by Restock.
	StockPath string
}

// Orders serves GET (list) and POST (create) on the same path.
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		log.Printf("list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, toOrderResponse(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.Repo.CreateOrder(r.Context(), &domain.Order{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Location: domain.Coordinates{Lon: *req.Lon, Lat: *req.Lat},
	})
	if err != nil {
		log.Printf("create order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, toOrderResponse(created))
}

// Restock replaces every order with the contents of the stock seed file.
func (h *OrderHandler) Restock(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if h.StockPath == "" {
		writeError(w, r, http.StatusServiceUnavailable, "no stock file configured")
		return
	}

	n, err := h.Repo.ReplaceFromJSON(r.Context(), h.StockPath)
	if err != nil {
		log.Printf("restock orders failed: path=%s err=%v", h.StockPath, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RestockResponse{Loaded: n})
}

func toOrderResponse(o *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:  o.OrderID,
		Name:     o.Name,
		Phone:    o.Phone,
		Address:  o.Address,
		Location: dto.CoordinatesResponse{Lon: o.Location.Lon, Lat: o.Location.Lat},
	}
}
