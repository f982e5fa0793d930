package dto

type CoordinatesResponse struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type OrderResponse struct {
	OrderID  int                 `json:"order_id"`
	Name     string              `json:"name"`
	Phone    string              `json:"phone"`
	Address  string              `json:"address"`
	Location CoordinatesResponse `json:"location"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type CreateOrderRequest struct {
	Name    string   `json:"name" validate:"required"`
	Phone   string   `json:"phone" validate:"required"`
	Address string   `json:"address" validate:"required"`
	Lon     *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
}

type RestockResponse struct {
	Loaded int `json:"loaded"`
}
