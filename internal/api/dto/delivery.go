package dto

type CompleteDeliveryRequest struct {
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
}

type CompleteDeliveryResponse struct {
	Generation uint64 `json:"generation"`
	Added      bool   `json:"added"`
}

type ListDeliveriesResponse struct {
	Completed []CoordinatesResponse `json:"completed"`
}

type SelectClusterRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}
