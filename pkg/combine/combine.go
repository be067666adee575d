// Package combine merges a feature collection into at most one MultiPoint,
// one MultiLineString and one MultiPolygon feature.
package combine

import (
	"errors"

	"github.com/mohammed-shakir/geocombine/pkg/geom"
)

// Stats counts what went into and came out of a Combine call, per family.
type Stats struct {
	FeaturesIn map[geom.Family]int
	MembersOut map[geom.Family]int
}

func newStats() Stats {
	return Stats{
		FeaturesIn: map[geom.Family]int{},
		MembersOut: map[geom.Family]int{},
	}
}

// FeaturesOut is the number of features in the combined collection.
func (s Stats) FeaturesOut() int {
	n := 0
	for _, f := range geom.Families {
		if s.MembersOut[f] > 0 {
			n++
		}
	}
	return n
}

type accumulator struct {
	points   []geom.Position
	lines    [][]geom.Position
	polygons [][][]geom.Position
}

// add appends the members of the i-th feature's geometry to its family.
// Coordinates are copied so the output never aliases the input.
func (a *accumulator) add(i int, g geom.Geometry) error {
	if err := geom.Validate(g); err != nil {
		return malformed(i, geom.TypeName(g), err)
	}
	switch v := g.(type) {
	case geom.Point:
		a.points = append(a.points, geom.ClonePosition(v.Coordinates))
	case geom.MultiPoint:
		a.points = append(a.points, geom.ClonePositions(v.Coordinates)...)
	case geom.LineString:
		a.lines = append(a.lines, geom.ClonePositions(v.Coordinates))
	case geom.MultiLineString:
		a.lines = append(a.lines, geom.CloneRings(v.Coordinates)...)
	case geom.Polygon:
		a.polygons = append(a.polygons, geom.CloneRings(v.Coordinates))
	case geom.MultiPolygon:
		a.polygons = append(a.polygons, geom.ClonePolygons(v.Coordinates)...)
	default:
		return unsupported(i, geom.TypeName(g))
	}
	return nil
}

func (a *accumulator) features() []geom.Feature {
	out := make([]geom.Feature, 0, 3)
	if len(a.points) > 0 {
		out = append(out, geom.NewFeature(geom.MultiPoint{Coordinates: a.points}))
	}
	if len(a.lines) > 0 {
		out = append(out, geom.NewFeature(geom.MultiLineString{Coordinates: a.lines}))
	}
	if len(a.polygons) > 0 {
		out = append(out, geom.NewFeature(geom.MultiPolygon{Coordinates: a.polygons}))
	}
	return out
}

// Combine groups fc's geometries by family and returns a new collection with
// one multi-geometry feature per family present, ordered points, lines,
// polygons. Input properties are dropped. Any bad feature rejects the whole
// collection.
func Combine(fc *geom.FeatureCollection) (*geom.FeatureCollection, error) {
	out, _, err := CombineWithStats(fc)
	return out, err
}

func CombineWithStats(fc *geom.FeatureCollection) (*geom.FeatureCollection, Stats, error) {
	st := newStats()
	if fc == nil {
		return nil, st, &Error{Kind: ErrMalformedInput, Index: -1, Err: errors.New("nil feature collection")}
	}

	var acc accumulator
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, newStats(), missing(i)
		}
		if err := acc.add(i, f.Geometry); err != nil {
			return nil, newStats(), err
		}
		st.FeaturesIn[geom.FamilyOf(f.Geometry.Kind())]++
	}

	st.MembersOut[geom.FamilyPoint] = len(acc.points)
	st.MembersOut[geom.FamilyLine] = len(acc.lines)
	st.MembersOut[geom.FamilyPolygon] = len(acc.polygons)

	return geom.NewFeatureCollection(acc.features()...), st, nil
}

// Families reports which families fc would produce, in output order, without
// building the combined collection. A family whose geometries are all empty
// multi-geometries produces nothing and is not reported.
func Families(fc *geom.FeatureCollection) ([]geom.Family, error) {
	if fc == nil {
		return nil, &Error{Kind: ErrMalformedInput, Index: -1, Err: errors.New("nil feature collection")}
	}
	counts := map[geom.Family]int{}
	for i, f := range fc.Features {
		if err := check(i, f.Geometry); err != nil {
			return nil, err
		}
		counts[geom.FamilyOf(f.Geometry.Kind())] += members(f.Geometry)
	}
	out := make([]geom.Family, 0, len(geom.Families))
	for _, fam := range geom.Families {
		if counts[fam] > 0 {
			out = append(out, fam)
		}
	}
	return out, nil
}

// members is the number of entries g adds to its family's accumulator.
func members(g geom.Geometry) int {
	switch v := g.(type) {
	case geom.Point, geom.LineString, geom.Polygon:
		return 1
	case geom.MultiPoint:
		return len(v.Coordinates)
	case geom.MultiLineString:
		return len(v.Coordinates)
	case geom.MultiPolygon:
		return len(v.Coordinates)
	default:
		return 0
	}
}

func check(i int, g geom.Geometry) error {
	if g == nil {
		return missing(i)
	}
	if geom.FamilyOf(g.Kind()) == geom.FamilyNone {
		return unsupported(i, geom.TypeName(g))
	}
	if err := geom.Validate(g); err != nil {
		return malformed(i, geom.TypeName(g), err)
	}
	return nil
}
