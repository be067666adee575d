package geom

import (
	"errors"
	"fmt"
	"math"
)

var ErrMalformed = errors.New("malformed coordinates")

const minLinePositions = 2

// Validate checks that g's coordinates have the nesting its kind declares.
// Ring length, ring closure and winding are not checked.
func Validate(g Geometry) error {
	switch v := g.(type) {
	case Point:
		return validatePosition(v.Coordinates, "coordinates")
	case MultiPoint:
		for i, p := range v.Coordinates {
			if err := validatePosition(p, fmt.Sprintf("coordinates[%d]", i)); err != nil {
				return err
			}
		}
		return nil
	case LineString:
		return validateLine(v.Coordinates, "coordinates")
	case MultiLineString:
		for i, l := range v.Coordinates {
			if err := validateLine(l, fmt.Sprintf("coordinates[%d]", i)); err != nil {
				return err
			}
		}
		return nil
	case Polygon:
		return validatePolygon(v.Coordinates, "coordinates")
	case MultiPolygon:
		for i, p := range v.Coordinates {
			if err := validatePolygon(p, fmt.Sprintf("coordinates[%d]", i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func validatePosition(p Position, path string) error {
	if len(p) < 2 {
		return fmt.Errorf("%w: %s: position has %d values (want at least 2)", ErrMalformed, path, len(p))
	}
	for i, f := range p {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s[%d]: not a finite number", ErrMalformed, path, i)
		}
	}
	return nil
}

func validateLine(l []Position, path string) error {
	if len(l) < minLinePositions {
		return fmt.Errorf("%w: %s: line has %d positions (want >= %d)", ErrMalformed, path, len(l), minLinePositions)
	}
	for i, p := range l {
		if err := validatePosition(p, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validatePolygon(rings [][]Position, path string) error {
	for i, r := range rings {
		rp := fmt.Sprintf("%s[%d]", path, i)
		for j, p := range r {
			if err := validatePosition(p, fmt.Sprintf("%s[%d]", rp, j)); err != nil {
				return err
			}
		}
	}
	return nil
}
