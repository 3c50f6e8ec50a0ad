// Package cluster groups words whose pairwise distances are small.
package cluster

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Matrix is a symmetric distance matrix with a zero diagonal, stored as a
// flattened upper triangle.
//
//	   0 1 2 3
//	0    0 1 2
//	1      3 4
//	2        5
type Matrix struct {
	n         int
	distances []float64
}

// NewMatrix returns an all-zero matrix over n points.
func NewMatrix(n int) *Matrix {
	if n < 0 {
		n = 0
	}
	return &Matrix{n: n, distances: make([]float64, n*(n-1)/2)}
}

// Len returns the number of points.
func (m *Matrix) Len() int {
	return m.n
}

// index maps i < j to the flattened position.
func (m *Matrix) index(i, j int) int {
	return m.n*i + j - (i+1)*(i+2)/2
}

// At returns the distance between points i and j.
// Panics if either index is out of range.
func (m *Matrix) At(i, j int) float64 {
	m.check(i, j)
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return m.distances[m.index(i, j)]
}

// Set stores the distance between distinct points i and j.
func (m *Matrix) Set(i, j int, d float64) {
	m.check(i, j)
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	m.distances[m.index(i, j)] = d
}

func (m *Matrix) check(i, j int) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		panic(fmt.Sprintf("cluster: index (%d, %d) out of range for %d points", i, j, m.n))
	}
}

// Precompute evaluates distance for every pair of points concurrently.
//
// Rows are spread over at most workers goroutines (GOMAXPROCS if workers
// <= 0). distance must be safe for concurrent use. Returns ctx.Err() if the
// context is cancelled before every row is done.
func Precompute[T any](ctx context.Context, points []T, distance func(a, b T) float64, workers int) (*Matrix, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	m := NewMatrix(len(points))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < len(points)-1; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each row owns a disjoint range of the flattened triangle.
			for j := i + 1; j < len(points); j++ {
				m.distances[m.index(i, j)] = distance(points[i], points[j])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
