package models

// NearestResult is the outcome of a nearest-available search.
// Found == false is the NotFound outcome and is not an error.
type NearestResult struct {
	Found          bool       `json:"found"`
	Bay            *BayRecord `json:"bay,omitempty"`
	DistanceMeters float64    `json:"distance_meters,omitempty"`

	// Position of the bay in snapshot order, -1 when not found
	Index int `json:"-"`
}

// NotFound returns the empty result
func NotFound() NearestResult {
	return NearestResult{Index: -1}
}
