// Package model defines the core data types shared across orbital:
// the raw Item records loaded from a stack file, the positioned Node
// graph derived from them, and the quality/rendering enums consumed by
// the scene controller and exporters.
package model

import (
	"fmt"
	"math"
	"strings"
)

// Item is one raw technology entry as loaded from a data source.
// Items are constructed once per session and treated as immutable.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	RelatedIDs []string `json:"related_ids,omitempty"`
	Notes      string   `json:"notes,omitempty"` // Markdown, shown in the detail panel
	URL        string   `json:"url,omitempty"`
}

// Node is a positioned graph vertex derived from an Item. Nodes are
// owned by the layout that produced them and are never mutated after
// creation; repositioning means rebuilding the whole node set.
type Node struct {
	ID            string
	Name          string
	Category      string
	CategoryIndex int
	RelatedIDs    []string // Resolved references only (dangling refs dropped)
	Notes         string
	URL           string
	Position      Vec3
}

// Connection is a rendered edge between two nodes. Connections are
// derived once per unordered pair that has at least one directed
// related-id reference; Start/End ordering is normalized so StartID < EndID.
type Connection struct {
	StartID string
	EndID   string
}

// Key returns a stable identifier for the unordered pair.
func (c Connection) Key() string {
	return c.StartID + "\x00" + c.EndID
}

// Touches reports whether the connection has id as either endpoint.
func (c Connection) Touches(id string) bool {
	return c.StartID == id || c.EndID == id
}

// QualityTier is a discrete rendering-fidelity level chosen adaptively
// by the scene controller to sustain frame rate.
type QualityTier int

const (
	QualityLow QualityTier = iota
	QualityMedium
	QualityHigh
)

// String returns the tier name used in config files and the status bar.
func (q QualityTier) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseQualityTier maps a tier name from config to its value. Unknown
// names report false.
func ParseQualityTier(s string) (QualityTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return QualityLow, true
	case "medium":
		return QualityMedium, true
	case "high":
		return QualityHigh, true
	default:
		return QualityHigh, false
	}
}

// Lights returns how many light sources render at this tier.
func (q QualityTier) Lights() int {
	if q == QualityHigh {
		return 2
	}
	return 1
}

// SphereDetail returns the tessellation segment count for node spheres.
func (q QualityTier) SphereDetail() int {
	switch q {
	case QualityHigh:
		return 24
	case QualityMedium:
		return 16
	default:
		return 8
	}
}

// DuplicateIDError reports two items sharing an id. It is fatal to the
// build call that detects it: silently dropping one duplicate would
// corrupt the adjacency downstream.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate item id %q", e.ID)
}

// InvalidReferenceWarning reports a related-id reference to an item
// that does not exist. Non-fatal: the dangling reference is dropped
// from the adjacency and the warning surfaced to the caller, since a
// partial graph is more useful than a hard failure here.
type InvalidReferenceWarning struct {
	ItemID string // Item carrying the reference
	RefID  string // The id that could not be resolved
}

func (w InvalidReferenceWarning) String() string {
	return fmt.Sprintf("item %q references unknown id %q (dropped)", w.ItemID, w.RefID)
}

// Vec3 is a 3D point or direction. Methods are value-based; Vec3 is
// small enough that copying beats sharing.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// DistanceTo returns the Euclidean distance to o.
func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Normalized returns the unit vector in the direction of v, or the
// zero vector when v has zero length.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp returns v moved toward target by factor t. With t in (0,1) the
// result never overshoots, which is what the camera easing relies on.
func (v Vec3) Lerp(target Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (target.X-v.X)*t,
		Y: v.Y + (target.Y-v.Y)*t,
		Z: v.Z + (target.Z-v.Z)*t,
	}
}

// IsFinite reports whether all three coordinates are finite numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
