package geo

func validatePositions(kind Kind, pts []Coordinate, min int, what string) error {
	if len(pts) < min {
		return invalid(kind, ReasonTooFew, "%s has %d positions, want at least %d", what, len(pts), min)
	}
	for _, c := range pts {
		if err := checkPosition(kind, c); err != nil {
			return err
		}
	}
	return nil
}

// validateRing checks a linear ring: at least four positions, first equal
// to last.
func validateRing(kind Kind, ring []Coordinate, idx int) error {
	if len(ring) < 4 {
		return invalid(kind, ReasonTooFew, "ring %d has %d positions, want at least 4", idx, len(ring))
	}
	for _, c := range ring {
		if err := checkPosition(kind, c); err != nil {
			return err
		}
	}
	if ring[0] != ring[len(ring)-1] {
		return invalid(kind, ReasonNotClosed, "ring %d starts at %v and ends at %v", idx, ring[0], ring[len(ring)-1])
	}
	return nil
}

func validateRings(kind Kind, rings [][]Coordinate) error {
	if len(rings) == 0 {
		return invalid(kind, ReasonTooFew, "polygon has no rings")
	}
	for i, ring := range rings {
		if err := validateRing(kind, ring, i); err != nil {
			return err
		}
	}
	return nil
}

func validateLines(kind Kind, lines [][]Coordinate) error {
	if len(lines) < 2 {
		return invalid(kind, ReasonTooFew, "%d lines, want at least 2", len(lines))
	}
	for _, line := range lines {
		if err := validatePositions(kind, line, 2, "line"); err != nil {
			return err
		}
	}
	return nil
}

func validatePolygons(kind Kind, polys [][][]Coordinate) error {
	if len(polys) < 2 {
		return invalid(kind, ReasonTooFew, "%d polygons, want at least 2", len(polys))
	}
	for _, rings := range polys {
		if err := validateRings(kind, rings); err != nil {
			return err
		}
	}
	return nil
}
