package topo

import (
	"encoding/json"
	"fmt"

	"dotmap/geo"
)

// arcRef is a direction-tagged reference into the arc table. The wire format
// encodes "traverse in reverse" as a one's-complement negative index; it is
// decoded here exactly once so no downstream code re-infers the convention.
type arcRef struct {
	index    int
	reversed bool
}

func newArcRef(i int) arcRef {
	if i < 0 {
		return arcRef{index: ^i, reversed: true} // ^i == -i-1
	}

	return arcRef{index: i}
}

// Polygons decodes the document into a flat collection of absolute polygon
// rings. It is pure: the document is not modified and repeated calls return
// equal results.
//
// Each arc is decoded independently: a running coordinate sum starts at the
// origin, each delta pair is accumulated, and every accumulated position is
// mapped through the quantization transform. A reversed reference reverses
// the decoded point order; the accumulation itself is always forward. A ring
// is the concatenation of its referenced arcs' points in listed order; nested
// ring sets contribute independent polygons. Geometries without arcs are
// skipped.
//
// An arc reference outside the arc table makes the whole document unusable
// and returns an error wrapping ErrMalformedTopology.
func (d *Document) Polygons() ([]geo.Ring, error) {
	decoded := d.decodeArcs()

	var rings []geo.Ring
	for gi, g := range d.Countries().Geometries {
		if len(g.Arcs) == 0 {
			continue
		}

		var node any
		if err := json.Unmarshal(g.Arcs, &node); err != nil {
			return nil, fmt.Errorf("%w: geometry %d: %v", ErrMalformedTopology, gi, err)
		}
		if err := appendRings(node, decoded, &rings); err != nil {
			return nil, fmt.Errorf("%w: geometry %d: %v", ErrMalformedTopology, gi, err)
		}
	}

	return rings, nil
}

// decodeArcs expands every arc in the table into absolute points, forward
// order. Rings referencing an arc in reverse copy from this table backwards.
func (d *Document) decodeArcs() [][]geo.Point {
	tr := d.transform()
	out := make([][]geo.Point, len(d.Arcs))

	for i, deltas := range d.Arcs {
		pts := make([]geo.Point, len(deltas))
		var x, y float64
		for j, delta := range deltas {
			x += delta[0]
			y += delta[1]
			pts[j] = geo.Point{
				Lng: x*tr.Scale[0] + tr.Translate[0],
				Lat: y*tr.Scale[1] + tr.Translate[1],
			}
		}
		out[i] = pts
	}

	return out
}

// appendRings walks one geometry's nested ring sets. A list whose first
// element is itself a list nests further; a list of numbers is one ring's
// arc references.
func appendRings(node any, decoded [][]geo.Point, rings *[]geo.Ring) error {
	list, ok := node.([]any)
	if !ok {
		return fmt.Errorf("ring set is not a sequence")
	}
	if len(list) == 0 {
		return nil
	}

	if _, nested := list[0].([]any); nested {
		for _, inner := range list {
			if err := appendRings(inner, decoded, rings); err != nil {
				return err
			}
		}

		return nil
	}

	ring, err := assembleRing(list, decoded)
	if err != nil {
		return err
	}
	*rings = append(*rings, ring)

	return nil
}

// assembleRing concatenates arc points for one ring's reference list.
func assembleRing(refs []any, decoded [][]geo.Point) (geo.Ring, error) {
	var ring geo.Ring
	for _, raw := range refs {
		num, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("arc reference %v is not a number", raw)
		}

		ref := newArcRef(int(num))
		if ref.index >= len(decoded) {
			return nil, fmt.Errorf("arc reference %d out of range (%d arcs)", ref.index, len(decoded))
		}

		pts := decoded[ref.index]
		if ref.reversed {
			for i := len(pts) - 1; i >= 0; i-- {
				ring = append(ring, pts[i])
			}
		} else {
			ring = append(ring, pts...)
		}
	}

	return ring, nil
}
