package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// renderSettings mimics the option targets used across the pipeline packages:
// a mutable settings struct with validating and non-validating setters.
type renderSettings struct {
	Width    int
	DotColor string
	Minify   bool
}

func (rs *renderSettings) setWidth(w int) error {
	if w <= 0 {
		return errors.New("width must be positive")
	}
	rs.Width = w

	return nil
}

func TestOption_New(t *testing.T) {
	t.Run("applies validated setting", func(t *testing.T) {
		rs := &renderSettings{}
		opt := New(func(r *renderSettings) error {
			return r.setWidth(1000)
		})

		require.NoError(t, opt.apply(rs))
		require.Equal(t, 1000, rs.Width)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		rs := &renderSettings{}
		opt := New(func(r *renderSettings) error {
			return r.setWidth(0)
		})

		err := opt.apply(rs)
		require.Error(t, err)
		require.Contains(t, err.Error(), "width must be positive")
	})
}

func TestOption_NoError(t *testing.T) {
	rs := &renderSettings{}
	opt := NoError(func(r *renderSettings) {
		r.Minify = true
	})

	require.NoError(t, opt.apply(rs))
	require.True(t, rs.Minify)
}

func TestOption_Apply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		rs := &renderSettings{}
		err := Apply(rs,
			New(func(r *renderSettings) error { return r.setWidth(500) }),
			NoError(func(r *renderSettings) { r.DotColor = "#38bdf8" }),
			NoError(func(r *renderSettings) { r.Minify = true }),
		)

		require.NoError(t, err)
		require.Equal(t, 500, rs.Width)
		require.Equal(t, "#38bdf8", rs.DotColor)
		require.True(t, rs.Minify)
	})

	t.Run("stops at first error", func(t *testing.T) {
		rs := &renderSettings{}
		err := Apply(rs,
			New(func(r *renderSettings) error { return r.setWidth(500) }),
			New(func(r *renderSettings) error { return r.setWidth(-1) }),
			NoError(func(r *renderSettings) { r.DotColor = "never set" }),
		)

		require.Error(t, err)
		require.Equal(t, 500, rs.Width)
		require.Empty(t, rs.DotColor)
	})

	t.Run("no options is a no-op", func(t *testing.T) {
		rs := &renderSettings{}
		require.NoError(t, Apply(rs))
		require.Zero(t, *rs)
	})
}

func TestOption_GenericsWithPrimitiveTarget(t *testing.T) {
	var n int
	opt := NoError(func(p *int) { *p = 42 })

	require.NoError(t, opt.apply(&n))
	require.Equal(t, 42, n)
}
