// Package topo fetches and decodes the encoded boundary document that feeds
// the map pipeline.
//
// The wire format is a topology: geographic features share coordinate arcs,
// and each arc stores integer coordinate deltas that are recovered by
// cumulative summation followed by a scale/translate quantization transform.
// The package exposes the two pipeline stages built on that format: Fetcher
// retrieves and shape-validates the document from a prioritized mirror list,
// and Document.Polygons expands the arcs into absolute polygon rings.
package topo

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSourcesExhausted reports that every candidate source failed
	// validation. It is fatal: the pipeline has no further fallback.
	ErrSourcesExhausted = errors.New("topology sources exhausted")

	// ErrMalformedTopology reports a document that passed the initial shape
	// checks but cannot be decoded, e.g. an out-of-range arc reference.
	// It is fatal: no polygon set can be produced from the document.
	ErrMalformedTopology = errors.New("malformed topology")
)

// Transform is the quantization transform applied to delta-accumulated arc
// coordinates: absolute = sum*Scale + Translate, per axis.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// identityTransform is used when a document omits its transform.
var identityTransform = Transform{Scale: [2]float64{1, 1}}

// Geometry is one country geometry. Arcs is kept raw because the wire format
// nests ring sets to arbitrary depth (a plain index list is one ring, a list
// of lists is a multi-polygon); the decoder walks it structurally.
type Geometry struct {
	Arcs json.RawMessage `json:"arcs"`
}

// GeometryCollection is the country geometry collection of a document.
type GeometryCollection struct {
	Geometries []Geometry `json:"geometries"`
}

// Document is a parsed topology document. It is immutable once fetched:
// the decoder only reads it, and it is discarded after decoding.
type Document struct {
	Type      string                         `json:"type"`
	Transform *Transform                     `json:"transform"`
	Arcs      [][][2]float64                 `json:"arcs"`
	Objects   map[string]*GeometryCollection `json:"objects"`

	// Source is the URL the document was fetched from; Digest is the
	// xxHash64 of the raw response body. Both are diagnostic only.
	Source string `json:"-"`
	Digest uint64 `json:"-"`
}

// countriesKey is the object holding the land geometries in the documents
// this pipeline consumes.
const countriesKey = "countries"

// Countries returns the country geometry collection, or nil if absent.
func (d *Document) Countries() *GeometryCollection {
	if d.Objects == nil {
		return nil
	}

	return d.Objects[countriesKey]
}

// Validate checks the three required top-level fields: the type marker, the
// arc table and the country geometry collection. A document failing Validate
// counts as an invalid mirror response, not as a malformed topology.
func (d *Document) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("missing type marker")
	}
	if d.Arcs == nil {
		return fmt.Errorf("missing arc table")
	}
	if d.Countries() == nil {
		return fmt.Errorf("missing countries geometry collection")
	}

	return nil
}

// transform returns the document transform, or the identity transform for
// documents that omit it.
func (d *Document) transform() Transform {
	if d.Transform == nil {
		return identityTransform
	}

	return *d.Transform
}
