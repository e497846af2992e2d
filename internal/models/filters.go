package models

// BayFilter represents filter parameters for listing bays
type BayFilter struct {
	Query         string `form:"q"`             // substring of id, status text or street
	OnlyAvailable bool   `form:"onlyAvailable"` // only unoccupied bays
	Limit         int    `form:"limit"`
}

// GridQuery represents parameters for an availability grid request
type GridQuery struct {
	Lat      *float64 `form:"lat" binding:"required"`
	Lon      *float64 `form:"lon" binding:"required"`
	CellSize *float64 `form:"cellSize"` // meters, nil means configured default
	Radius   *int     `form:"radius"`   // cells, nil means configured default
}

// PointQuery represents a bare coordinate query
type PointQuery struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lon *float64 `form:"lon" binding:"required"`
}

// Point returns the queried coordinate
func (q PointQuery) Point() GeoPoint {
	return GeoPoint{Lat: *q.Lat, Lon: *q.Lon}
}

// Point returns the grid center
func (q GridQuery) Point() GeoPoint {
	return GeoPoint{Lat: *q.Lat, Lon: *q.Lon}
}
