// Package raster turns the decoded polygon set into accepted dot samples.
//
// A geographic grid is walked in a fixed order (latitude rows south to north,
// longitudes west to east, sub-samples within each cell), each candidate
// sample is optionally jittered, and samples classified as land are collected
// in traversal order. With jitter disabled the whole pass is deterministic;
// with jitter enabled it is still reproducible for a given seed because every
// row derives its own random stream from the seed and the row index.
//
// Rows are independent: the optional worker pool classifies whole rows
// against the shared read-only classifier and writes into row-local buffers
// that are merged back in row order, so parallel output equals serial output.
package raster

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"dotmap/geo"
)

// Dot is one accepted land sample. Dots are append-only: the rasterizer
// produces them in traversal order and the emitter consumes them once.
type Dot struct {
	Lat float64
	Lng float64
}

// Classifier decides land membership for a sample point. *geo.Collection
// implements it; tests substitute synthetic classifiers.
type Classifier interface {
	Land(p geo.Point) bool
}

// Config holds the immutable tunables for one rasterization run.
type Config struct {
	// Step is the coarse grid spacing in degrees.
	Step float64
	// Subdivisions is the number of sub-samples per axis within each coarse
	// cell; 1 samples each cell once at its center.
	Subdivisions int
	// Jitter is the maximum random perturbation in degrees applied to each
	// sample on both axes; 0 disables randomness entirely.
	Jitter float64
	// Seed drives the jitter streams. Ignored when Jitter is 0.
	Seed uint64
	// Workers is the number of goroutines classifying rows; 1 runs serial.
	Workers int
}

// DefaultConfig returns the grid used for a standard world render: a 2-degree
// grid, one centered sample per cell, no jitter, serial execution.
func DefaultConfig() Config {
	return Config{
		Step:         2,
		Subdivisions: 1,
		Jitter:       0,
		Workers:      1,
	}
}

// Validate rejects configurations the traversal cannot execute.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("grid step must be positive, got %v", c.Step)
	}
	if c.Subdivisions < 1 {
		return fmt.Errorf("subdivisions must be at least 1, got %d", c.Subdivisions)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %v", c.Jitter)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	return nil
}

// Rasterize samples the geographic grid described by cfg against cls and
// returns the accepted dots in traversal order.
func Rasterize(cfg Config, cls Classifier) ([]Dot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rows := rowLatitudes(cfg.Step)
	buffers := make([][]Dot, len(rows))

	if cfg.Workers == 1 {
		for i, lat := range rows {
			buffers[i] = rasterizeRow(cfg, cls, i, lat)
		}
	} else {
		var wg sync.WaitGroup
		rowCh := make(chan int)

		for w := 0; w < cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range rowCh {
					buffers[i] = rasterizeRow(cfg, cls, i, rows[i])
				}
			}()
		}
		for i := range rows {
			rowCh <- i
		}
		close(rowCh)
		wg.Wait()
	}

	// Row-local buffers merge in row order, so worker scheduling never
	// changes the output.
	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	dots := make([]Dot, 0, total)
	for _, b := range buffers {
		dots = append(dots, b...)
	}

	return dots, nil
}

// rowLatitudes enumerates the coarse row latitudes from -90 to 90. Index
// multiplication avoids accumulating float error across rows.
func rowLatitudes(step float64) []float64 {
	var rows []float64
	for i := 0; ; i++ {
		lat := -90 + float64(i)*step
		if lat > 90 {
			break
		}
		rows = append(rows, lat)
	}

	return rows
}

// rasterizeRow classifies every sample of one latitude row. Each row with
// jitter enabled gets its own random stream derived from the seed and the
// row index, keeping output independent of worker scheduling.
func rasterizeRow(cfg Config, cls Classifier, row int, lat float64) []Dot {
	var rng *rand.Rand
	if cfg.Jitter > 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, uint64(row)))
	}

	subStep := cfg.Step / float64(cfg.Subdivisions)
	var dots []Dot

	for j := 0; ; j++ {
		lng := -180 + float64(j)*cfg.Step
		if lng > 180 {
			break
		}

		for si := 0; si < cfg.Subdivisions; si++ {
			for sj := 0; sj < cfg.Subdivisions; sj++ {
				sLat := lat + (float64(si)+0.5)*subStep
				sLng := lng + (float64(sj)+0.5)*subStep

				if rng != nil {
					sLat += rng.Float64()*2*cfg.Jitter - cfg.Jitter
					sLng += rng.Float64()*2*cfg.Jitter - cfg.Jitter
				}

				if sLat < -90 || sLat > 90 || sLng < -180 || sLng > 180 {
					continue
				}

				if cls.Land(geo.Point{Lng: sLng, Lat: sLat}) {
					dots = append(dots, Dot{Lat: sLat, Lng: sLng})
				}
			}
		}
	}

	return dots
}
