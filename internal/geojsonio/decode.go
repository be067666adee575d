// Package geojsonio converts between GeoJSON bytes and the geom model.
package geojsonio

import (
	"bytes"
	"errors"
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/mohammed-shakir/geocombine/pkg/combine"
	"github.com/mohammed-shakir/geocombine/pkg/geom"
)

const (
	typeFeatureCollection = "FeatureCollection"
	typeFeature           = "Feature"
)

// Decode parses a GeoJSON FeatureCollection. Features without a geometry are
// kept with a nil Geometry and unknown geometry tags become geom.Unknown, so
// that the combiner reports them.
func Decode(data []byte) (*geom.FeatureCollection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed(-1, errors.New("empty document"))
	}
	raw, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, malformed(-1, fmt.Errorf("parse json: %w", err))
	}
	return FromGeoJSON(raw)
}

// FromGeoJSON converts an already decoded go.geojson collection.
func FromGeoJSON(raw *geojson.FeatureCollection) (*geom.FeatureCollection, error) {
	if raw == nil {
		return nil, malformed(-1, errors.New("nil feature collection"))
	}
	if raw.Type != typeFeatureCollection {
		return nil, malformed(-1, fmt.Errorf("type is %q (want %q)", raw.Type, typeFeatureCollection))
	}

	out := &geom.FeatureCollection{Features: make([]geom.Feature, 0, len(raw.Features))}
	for i, f := range raw.Features {
		if f == nil {
			return nil, malformed(i, errors.New("feature is null"))
		}
		if f.Type != typeFeature {
			return nil, malformed(i, fmt.Errorf("type is %q (want %q)", f.Type, typeFeature))
		}
		out.Features = append(out.Features, geom.Feature{
			ID:         f.ID,
			Geometry:   fromGeometry(f.Geometry),
			Properties: f.Properties,
		})
	}
	return out, nil
}

func fromGeometry(g *geojson.Geometry) geom.Geometry {
	if g == nil {
		return nil
	}
	switch g.Type {
	case geojson.GeometryPoint:
		return geom.Point{Coordinates: geom.Position(g.Point)}
	case geojson.GeometryMultiPoint:
		return geom.MultiPoint{Coordinates: positions(g.MultiPoint)}
	case geojson.GeometryLineString:
		return geom.LineString{Coordinates: positions(g.LineString)}
	case geojson.GeometryMultiLineString:
		return geom.MultiLineString{Coordinates: lines(g.MultiLineString)}
	case geojson.GeometryPolygon:
		return geom.Polygon{Coordinates: lines(g.Polygon)}
	case geojson.GeometryMultiPolygon:
		return geom.MultiPolygon{Coordinates: polygons(g.MultiPolygon)}
	case geojson.GeometryCollection:
		gs := make([]geom.Geometry, 0, len(g.Geometries))
		for _, sub := range g.Geometries {
			gs = append(gs, fromGeometry(sub))
		}
		return geom.GeometryCollection{Geometries: gs}
	default:
		return geom.Unknown{Type: string(g.Type)}
	}
}

func positions(in [][]float64) []geom.Position {
	if in == nil {
		return nil
	}
	out := make([]geom.Position, len(in))
	for i := range in {
		out[i] = geom.Position(in[i])
	}
	return out
}

func lines(in [][][]float64) [][]geom.Position {
	if in == nil {
		return nil
	}
	out := make([][]geom.Position, len(in))
	for i := range in {
		out[i] = positions(in[i])
	}
	return out
}

func polygons(in [][][][]float64) [][][]geom.Position {
	if in == nil {
		return nil
	}
	out := make([][][]geom.Position, len(in))
	for i := range in {
		out[i] = lines(in[i])
	}
	return out
}

func malformed(i int, err error) error {
	return &combine.Error{Kind: combine.ErrMalformedInput, Index: i, Err: err}
}
