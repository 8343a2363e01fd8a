package models

// Coordinate is a WGS84 point stored as [longitude, latitude], matching the
// order used by every routing provider and by the routes collection.
type Coordinate [2]float64

func NewCoordinate(lng, lat float64) Coordinate {
	return Coordinate{lng, lat}
}

func (c Coordinate) Lng() float64 {
	return c[0]
}

func (c Coordinate) Lat() float64 {
	return c[1]
}

// Location is an address with optional derived coordinates. Coordinates are
// geocoded when absent.
type Location struct {
	Address     string      `bson:"address,omitempty" json:"address,omitempty"`
	City        string      `bson:"city,omitempty" json:"city,omitempty"`
	State       string      `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode     string      `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Coordinates *Coordinate `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Stop is a waypoint on a route, owned by exactly one route.
type Stop struct {
	Name        string      `bson:"name" json:"name"`
	Address     string      `bson:"address,omitempty" json:"address,omitempty"`
	Coordinates *Coordinate `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}
