package domain

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a point of interest near a destination.
type Place struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location LatLng   `json:"location"`
	Rating   *float64 `json:"rating,omitempty"`
	Types    []string `json:"types"`
}

// NearbyPlaces is the answer to a nearby search around a destination. Mock
// is true when the places came from the built-in table.
type NearbyPlaces struct {
	Destination string  `json:"destination"`
	Type        string  `json:"type"`
	Center      LatLng  `json:"center"`
	Places      []Place `json:"places"`
	Mock        bool    `json:"mock"`
}
