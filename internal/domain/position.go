package domain

// PositionEvent is the unit of data pushed to the real-time channel.
type PositionEvent struct {
	RouteID  string  `json:"route_id"`
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

func NewPositionEvent(routeID, driverID string, c Coordinates) PositionEvent {
	return PositionEvent{
		RouteID:  routeID,
		DriverID: driverID,
		Lat:      c.Lat,
		Lng:      c.Lng,
	}
}
