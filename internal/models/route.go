package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RouteStatus string

const (
	RouteStatusActive    RouteStatus = "Active"
	RouteStatusInactive  RouteStatus = "Inactive"
	RouteStatusCompleted RouteStatus = "Completed"
	RouteStatusArchived  RouteStatus = "Archived"
)

// DefaultActiveDays is the weekday schedule assigned to auto-created routes.
var DefaultActiveDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Route is mutable shared state: multiple orders may reference the same route
// and append stops to it. Geometry must be recomputed whenever the start, the
// end, or the stops change.
type Route struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RouteName      string              `bson:"routeName" json:"routeName"`
	StartLocation  Location            `bson:"startLocation" json:"startLocation"`
	EndLocation    Location            `bson:"endLocation" json:"endLocation"`
	Stops          []Stop              `bson:"stops" json:"stops"`
	AssignedDriver *primitive.ObjectID `bson:"assignedDriver,omitempty" json:"assignedDriver,omitempty"`
	ETA            string              `bson:"eta,omitempty" json:"eta,omitempty"`
	ActiveDays     []string            `bson:"activeDays" json:"activeDays"`
	Status         RouteStatus         `bson:"status" json:"status"`
	Geometry       []Coordinate        `bson:"geometry,omitempty" json:"geometry,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Anchors returns the geographic points of interest used in distance
// matching: start, end, and every stop that has coordinates.
func (r *Route) Anchors() []Anchor {
	anchors := make([]Anchor, 0, len(r.Stops)+2)
	if r.StartLocation.Coordinates != nil {
		anchors = append(anchors, Anchor{
			Kind:        AnchorStart,
			Coordinates: *r.StartLocation.Coordinates,
			Description: "Start: " + r.StartLocation.Address,
		})
	}
	if r.EndLocation.Coordinates != nil {
		anchors = append(anchors, Anchor{
			Kind:        AnchorEnd,
			Coordinates: *r.EndLocation.Coordinates,
			Description: "End: " + r.EndLocation.Address,
		})
	}
	for i, stop := range r.Stops {
		if stop.Coordinates == nil {
			continue
		}
		label := stop.Name
		if label == "" {
			label = stop.Address
		}
		anchors = append(anchors, Anchor{
			Kind:        AnchorStop,
			StopIndex:   i,
			Coordinates: *stop.Coordinates,
			Description: label,
		})
	}
	return anchors
}

type AnchorKind string

const (
	AnchorStart AnchorKind = "start"
	AnchorEnd   AnchorKind = "end"
	AnchorStop  AnchorKind = "stop"
	AnchorNone  AnchorKind = "none"
)

// Anchor is a single point of interest on a route.
type Anchor struct {
	Kind        AnchorKind `json:"kind"`
	StopIndex   int        `json:"stopIndex,omitempty"`
	Coordinates Coordinate `json:"coordinates"`
	Description string     `json:"description,omitempty"`
}
