package dotmap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotmap/compress"
	"dotmap/raster"
	"dotmap/topo"
)

// northernHemisphereTopology encodes a single polygon covering lat >= 0:
// one arc delta-encoding the ring (-180,0) (-180,90) (180,90) (180,0).
const northernHemisphereTopology = `{
	"type": "Topology",
	"transform": {"scale": [1, 1], "translate": [0, 0]},
	"arcs": [[[-180, 0], [0, 90], [360, 0], [0, -90]]],
	"objects": {"countries": {"geometries": [{"arcs": [[0]]}]}}
}`

func topologyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(northernHemisphereTopology))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestPipeline_EndToEnd(t *testing.T) {
	srv := topologyServer(t)
	out := filepath.Join(t.TempDir(), "map.svg")

	p, err := New(
		WithSources(srv.URL),
		WithGrid(raster.Config{Step: 10, Subdivisions: 1, Workers: 1}),
		WithOutputPath(out),
	)
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, srv.URL, report.Source)
	assert.NotZero(t, report.Digest)
	assert.Equal(t, 1, report.Rings)
	assert.Equal(t, 4, report.Vertices)
	assert.Positive(t, report.Artifact.Dots)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	svgText := string(data)
	assert.Contains(t, svgText, `viewBox="0 0 1000 500"`)
	assert.Equal(t, report.Artifact.Dots, strings.Count(svgText, "<circle "))

	// Only the northern hemisphere is land, so every circle sits in the top
	// half of the canvas (y <= 250).
	for _, part := range strings.Split(svgText, `cy="`)[1:] {
		end := strings.Index(part, `"`)
		require.Positive(t, end)
		cy, err := strconv.ParseFloat(part[:end], 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, cy, 250.0)
	}
}

func TestPipeline_DeterministicRuns(t *testing.T) {
	srv := topologyServer(t)
	dir := t.TempDir()
	outA := filepath.Join(dir, "a.svg")
	outB := filepath.Join(dir, "b.svg")

	run := func(out string) []byte {
		p, err := New(
			WithSources(srv.URL),
			WithGrid(raster.Config{Step: 15, Subdivisions: 2, Workers: 2}),
			WithOutputPath(out),
		)
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)

		return data
	}

	assert.Equal(t, run(outA), run(outB), "jitter-free runs must produce byte-identical artifacts")
}

func TestPipeline_SourcesExhaustedWritesNothing(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer bad.Close()

	out := filepath.Join(t.TempDir(), "map.svg")
	p, err := New(WithSources(bad.URL), WithOutputPath(out))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.ErrorIs(t, err, topo.ErrSourcesExhausted)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "a failed run must not write any output")
}

func TestPipeline_MalformedTopologyWritesNothing(t *testing.T) {
	// Passes shape validation, fails during decode: arc reference 7 with a
	// single-arc table.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"type": "Topology",
			"transform": {"scale": [1, 1], "translate": [0, 0]},
			"arcs": [[[0, 0]]],
			"objects": {"countries": {"geometries": [{"arcs": [[7]]}]}}
		}`))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "map.svg")
	p, err := New(WithSources(srv.URL), WithOutputPath(out))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.ErrorIs(t, err, topo.ErrMalformedTopology)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_GeoJSONDump(t *testing.T) {
	srv := topologyServer(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "map.svg")
	dump := filepath.Join(dir, "land.geojson")

	p, err := New(
		WithSources(srv.URL),
		WithGrid(raster.Config{Step: 30, Subdivisions: 1, Workers: 1}),
		WithOutputPath(out),
		WithGeoJSONDump(dump),
	)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(dump)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestPipeline_CompressedArtifact(t *testing.T) {
	srv := topologyServer(t)
	out := filepath.Join(t.TempDir(), "map.svgz")

	p, err := New(
		WithSources(srv.URL),
		WithGrid(raster.Config{Step: 30, Subdivisions: 1, Workers: 1}),
		WithOutputPath(out),
		WithCompression(compress.TypeGzip),
		WithMinify(true),
	)
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, compress.TypeGzip, report.Artifact.Compression)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	restored, err := compress.NewGzipCompressor().Decompress(data)
	require.NoError(t, err)
	assert.Contains(t, string(restored), "<svg ")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(WithSources())
	require.Error(t, err)

	_, err = New(WithTimeout(0))
	require.Error(t, err)

	_, err = New(WithGrid(raster.Config{}))
	require.Error(t, err)

	_, err = New(WithOutputPath(""))
	require.Error(t, err)

	_, err = New(WithCanvas(0, 0))
	require.Error(t, err)
}
