package domain

// Represents a single delivery order handled by the system.
// Orders are geocoded before they reach this service; Location is
// the delivery point the clustering service groups into routes.
type Order struct {
	OrderID  int
	Name     string
	Phone    string
	Address  string
	Location Coordinates
}
