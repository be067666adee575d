package geom

func ClonePosition(p Position) Position {
	if p == nil {
		return nil
	}
	out := make(Position, len(p))
	copy(out, p)
	return out
}

func ClonePositions(ps []Position) []Position {
	if ps == nil {
		return nil
	}
	out := make([]Position, len(ps))
	for i := range ps {
		out[i] = ClonePosition(ps[i])
	}
	return out
}

// CloneRings copies a polygon's rings (or a multi-line's lines).
func CloneRings(rs [][]Position) [][]Position {
	if rs == nil {
		return nil
	}
	out := make([][]Position, len(rs))
	for i := range rs {
		out[i] = ClonePositions(rs[i])
	}
	return out
}

func ClonePolygons(ps [][][]Position) [][][]Position {
	if ps == nil {
		return nil
	}
	out := make([][][]Position, len(ps))
	for i := range ps {
		out[i] = CloneRings(ps[i])
	}
	return out
}
