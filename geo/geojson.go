package geo

import (
	"encoding/json"

	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON renders the collection as a GeoJSON FeatureCollection with one
// single-ring Polygon feature per ring. It exists for inspection: dumping the
// decoded polygon set next to the artifact makes it easy to eyeball the land
// boundaries in any GeoJSON viewer when a render looks wrong.
//
// Rings are implicitly closed in this package but GeoJSON requires an
// explicit closing vertex, so the first point is repeated at the end.
func (c *Collection) GeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for i, r := range c.rings {
		coords := make([][]float64, 0, len(r)+1)
		for _, p := range r {
			coords = append(coords, []float64{p.Lng, p.Lat})
		}
		if len(r) > 0 && r[0] != r[len(r)-1] {
			coords = append(coords, []float64{r[0].Lng, r[0].Lat})
		}

		f := geojson.NewPolygonFeature([][][]float64{coords})
		f.SetProperty("ring", i)
		fc.AddFeature(f)
	}

	return json.Marshal(fc)
}
