// Package geom defines the GeoJSON geometry model the combiner works on.
package geom

import "fmt"

type Kind int

const (
	KindUnknown Kind = iota
	KindPoint
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
	KindGeometryCollection
)

var kindNames = map[Kind]string{
	KindPoint:              "Point",
	KindMultiPoint:         "MultiPoint",
	KindLineString:         "LineString",
	KindMultiLineString:    "MultiLineString",
	KindPolygon:            "Polygon",
	KindMultiPolygon:       "MultiPolygon",
	KindGeometryCollection: "GeometryCollection",
}

// String returns the GeoJSON type tag
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// KindOf maps a GeoJSON type tag to its Kind; unknown tags yield KindUnknown
func KindOf(tag string) Kind {
	for k, s := range kindNames {
		if s == tag {
			return k
		}
	}
	return KindUnknown
}

type Family int

const (
	FamilyNone Family = iota
	FamilyPoint
	FamilyLine
	FamilyPolygon
)

// Families lists the families in output order.
var Families = []Family{FamilyPoint, FamilyLine, FamilyPolygon}

func (f Family) String() string {
	switch f {
	case FamilyPoint:
		return "point"
	case FamilyLine:
		return "line"
	case FamilyPolygon:
		return "polygon"
	default:
		return "none"
	}
}

func FamilyOf(k Kind) Family {
	switch k {
	case KindPoint, KindMultiPoint:
		return FamilyPoint
	case KindLineString, KindMultiLineString:
		return FamilyLine
	case KindPolygon, KindMultiPolygon:
		return FamilyPolygon
	default:
		return FamilyNone
	}
}

// Position is one coordinate tuple: x, y and an optional z.
type Position []float64

// Geometry is implemented only by the types in this package.
type Geometry interface {
	Kind() Kind
	sealed()
}

type Point struct{ Coordinates Position }

type MultiPoint struct{ Coordinates []Position }

type LineString struct{ Coordinates []Position }

type MultiLineString struct{ Coordinates [][]Position }

// Polygon holds rings; the first is the exterior, the rest are holes.
type Polygon struct{ Coordinates [][]Position }

type MultiPolygon struct{ Coordinates [][][]Position }

type GeometryCollection struct{ Geometries []Geometry }

// Unknown carries a geometry whose type tag is not part of GeoJSON.
type Unknown struct{ Type string }

func (Point) Kind() Kind              { return KindPoint }
func (MultiPoint) Kind() Kind         { return KindMultiPoint }
func (LineString) Kind() Kind         { return KindLineString }
func (MultiLineString) Kind() Kind    { return KindMultiLineString }
func (Polygon) Kind() Kind            { return KindPolygon }
func (MultiPolygon) Kind() Kind       { return KindMultiPolygon }
func (GeometryCollection) Kind() Kind { return KindGeometryCollection }
func (Unknown) Kind() Kind            { return KindUnknown }

func (Point) sealed()              {}
func (MultiPoint) sealed()         {}
func (LineString) sealed()         {}
func (MultiLineString) sealed()    {}
func (Polygon) sealed()            {}
func (MultiPolygon) sealed()       {}
func (GeometryCollection) sealed() {}
func (Unknown) sealed()            {}

// TypeName returns the type tag of g, preferring the raw tag for Unknown.
func TypeName(g Geometry) string {
	if u, ok := g.(Unknown); ok && u.Type != "" {
		return u.Type
	}
	if g == nil {
		return "null"
	}
	return g.Kind().String()
}

type Feature struct {
	ID         any
	Geometry   Geometry
	Properties map[string]any
}

type FeatureCollection struct {
	Features []Feature
}

func NewFeature(g Geometry) Feature {
	return Feature{Geometry: g, Properties: map[string]any{}}
}

func NewFeatureCollection(features ...Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Features: features}
}

func (fc *FeatureCollection) String() string {
	if fc == nil {
		return "FeatureCollection(nil)"
	}
	return fmt.Sprintf("FeatureCollection(%d features)", len(fc.Features))
}
