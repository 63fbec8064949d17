package mapsync

import (
	"errors"

	"phonedeal-be/internal/geo"
)

type State int

const (
	Idle State = iota
	CenterReady
	Tracking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CenterReady:
		return "center_ready"
	case Tracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// ErrStalePass is returned by a pass that a newer one replaced before it
// finished. Its results were never rendered.
var ErrStalePass = errors.New("mapsync: pass superseded")

// Viewport is a settled pan/zoom event from the map widget.
type Viewport struct {
	Center    geo.Point `json:"center"`
	NorthEast geo.Point `json:"ne"`
	SouthWest geo.Point `json:"sw"`
	Zoom      int       `json:"zoom"`
}

// Valid reports whether all three corners are usable coordinates. A zero
// corner is what an omitted field decodes to and is rejected.
func (v Viewport) Valid() bool {
	for _, p := range []geo.Point{v.Center, v.NorthEast, v.SouthWest} {
		if !p.Valid() || p == (geo.Point{}) {
			return false
		}
	}
	return v.SouthWest.Lat <= v.NorthEast.Lat
}

func (v Viewport) Bounds() geo.Bounds {
	return geo.Bounds{SouthWest: v.SouthWest, NorthEast: v.NorthEast}
}

type Annotation struct {
	StoreID  string    `json:"storeId"`
	Position geo.Point `json:"position"`
	Label    string    `json:"label"`
}

// Batch is one render of a pass. A pass renders at most one partial batch
// before its final one.
type Batch struct {
	Pass        uint64       `json:"pass"`
	Final       bool         `json:"final"`
	Annotations []Annotation `json:"annotations"`
}

// MapWidget draws annotation batches. Render is called with the
// controller's lock held and must not call back into the controller.
type MapWidget interface {
	Render(b Batch)
}
