package geojsonio

import (
	"bytes"
	"encoding/json"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"gopkg.in/yaml.v3"

	"github.com/mohammed-shakir/geocombine/pkg/geom"
)

// ToGeoJSON converts fc into go.geojson types.
func ToGeoJSON(fc *geom.FeatureCollection) (*geojson.FeatureCollection, error) {
	out := geojson.NewFeatureCollection()
	if fc == nil {
		return out, nil
	}
	for i, f := range fc.Features {
		var g *geojson.Geometry
		if f.Geometry != nil {
			var err error
			if g, err = toGeometry(f.Geometry); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		}
		gf := geojson.NewFeature(g)
		gf.ID = f.ID
		for k, v := range f.Properties {
			gf.Properties[k] = v
		}
		out.AddFeature(gf)
	}
	return out, nil
}

func toGeometry(g geom.Geometry) (*geojson.Geometry, error) {
	switch v := g.(type) {
	case geom.Point:
		return geojson.NewPointGeometry(v.Coordinates), nil
	case geom.MultiPoint:
		return geojson.NewMultiPointGeometry(floats(v.Coordinates)...), nil
	case geom.LineString:
		return geojson.NewLineStringGeometry(floats(v.Coordinates)), nil
	case geom.MultiLineString:
		return geojson.NewMultiLineStringGeometry(floats2(v.Coordinates)...), nil
	case geom.Polygon:
		return geojson.NewPolygonGeometry(floats2(v.Coordinates)), nil
	case geom.MultiPolygon:
		ps := make([][][][]float64, len(v.Coordinates))
		for i := range v.Coordinates {
			ps[i] = floats2(v.Coordinates[i])
		}
		return geojson.NewMultiPolygonGeometry(ps...), nil
	case geom.GeometryCollection:
		gs := make([]*geojson.Geometry, 0, len(v.Geometries))
		for _, sub := range v.Geometries {
			sg, err := toGeometry(sub)
			if err != nil {
				return nil, err
			}
			gs = append(gs, sg)
		}
		return geojson.NewCollectionGeometry(gs...), nil
	default:
		return nil, fmt.Errorf("cannot encode geometry type %q", geom.TypeName(g))
	}
}

func floats(ps []geom.Position) [][]float64 {
	out := make([][]float64, len(ps))
	for i := range ps {
		out[i] = ps[i]
	}
	return out
}

func floats2(ls [][]geom.Position) [][][]float64 {
	out := make([][][]float64, len(ls))
	for i := range ls {
		out[i] = floats(ls[i])
	}
	return out
}

// Encode renders fc as compact GeoJSON.
func Encode(fc *geom.FeatureCollection) ([]byte, error) {
	gfc, err := ToGeoJSON(fc)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(gfc)
	if err != nil {
		return nil, fmt.Errorf("marshal feature collection: %w", err)
	}
	return b, nil
}

func EncodeIndent(fc *geom.FeatureCollection, indent string) ([]byte, error) {
	b, err := Encode(fc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", indent); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML renders the same document as Encode, as YAML.
func EncodeYAML(fc *geom.FeatureCollection) ([]byte, error) {
	b, err := Encode(fc)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("reparse json: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}
