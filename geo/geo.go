// Package geo holds the decoded polygon model and the land classifier.
//
// Rings come out of the topology decoder as absolute longitude/latitude
// vertex sequences and are read-only from then on: the rasterizer shares one
// Collection across all grid samples (and across worker goroutines) without
// synchronization.
//
// Classification intentionally unions every ring: a point inside any ring is
// land, and rings are never subtracted from one another. Water bodies fully
// enclosed by a landmass therefore classify as land. This mirrors the data
// pipeline this package was built for, where interior rings are not
// distinguished from exterior ones.
package geo

// Point is a geographic coordinate in degrees.
type Point struct {
	Lng float64
	Lat float64
}

// Ring is one polygon ring: an ordered vertex sequence, implicitly closed
// (the last vertex connects back to the first).
type Ring []Point

// Contains reports whether p lies inside the ring, using the crossing-number
// ray cast: a horizontal ray from p toggles the inside flag each time it
// crosses an edge. Points exactly on an edge classify consistently but on an
// unspecified side.
func (r Ring) Contains(p Point) bool {
	n := len(r)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := r[i], r[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			// Longitude where the edge crosses the query latitude.
			cross := vi.Lng + (p.Lat-vi.Lat)*(vj.Lng-vi.Lng)/(vj.Lat-vi.Lat)
			if p.Lng < cross {
				inside = !inside
			}
		}
	}

	return inside
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// Contains reports whether p lies inside the box (inclusive).
func (b BBox) Contains(p Point) bool {
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Bounds returns the bounding box of the ring. The zero BBox is returned for
// an empty ring.
func (r Ring) Bounds() BBox {
	if len(r) == 0 {
		return BBox{}
	}

	b := BBox{
		MinLng: r[0].Lng, MaxLng: r[0].Lng,
		MinLat: r[0].Lat, MaxLat: r[0].Lat,
	}
	for _, p := range r[1:] {
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
	}

	return b
}

// Collection is an immutable set of rings with precomputed bounding boxes.
// It is safe for concurrent readers.
type Collection struct {
	rings  []Ring
	bounds []BBox
}

// NewCollection builds a Collection from rings. Rings with fewer than three
// vertices can never contain a point and are dropped.
func NewCollection(rings []Ring) *Collection {
	c := &Collection{
		rings:  make([]Ring, 0, len(rings)),
		bounds: make([]BBox, 0, len(rings)),
	}
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		c.rings = append(c.rings, r)
		c.bounds = append(c.bounds, r.Bounds())
	}

	return c
}

// Land reports whether p lies inside at least one ring. The bounding-box
// check prunes rings that cannot contain p; it never changes the result.
func (c *Collection) Land(p Point) bool {
	for i, r := range c.rings {
		if !c.bounds[i].Contains(p) {
			continue
		}
		if r.Contains(p) {
			return true
		}
	}

	return false
}

// Rings returns the rings in the collection. Callers must not mutate them.
func (c *Collection) Rings() []Ring {
	return c.rings
}

// Len returns the number of rings in the collection.
func (c *Collection) Len() int {
	return len(c.rings)
}

// VertexCount returns the total number of vertices across all rings.
func (c *Collection) VertexCount() int {
	n := 0
	for _, r := range c.rings {
		n += len(r)
	}

	return n
}
