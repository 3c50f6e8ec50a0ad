package cluster

import "sort"

// Result is the outcome of a clustering run.
type Result struct {
	// Clusters holds point indices, ascending within each cluster, in order
	// of discovery.
	Clusters [][]int
	// Noise holds the indices of points outside every cluster, ascending.
	Noise []int
}

// DBSCAN clusters the points of m.
//
// A point is a core point if at least minPoints points (itself included) lie
// within epsilon of it. Clusters grow from core points through their
// neighbourhoods. With minPoints <= 2 every cluster is a connected component
// of the graph linking points at distance <= epsilon.
func DBSCAN(m *Matrix, epsilon float64, minPoints int) Result {
	const unassigned = -1

	n := m.Len()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unassigned
	}
	visited := make([]bool, n)

	region := func(p int) []int {
		var out []int
		for q := 0; q < n; q++ {
			if m.At(p, q) <= epsilon {
				out = append(out, q)
			}
		}
		return out
	}

	var clusters [][]int
	for p := 0; p < n; p++ {
		if visited[p] {
			continue
		}
		visited[p] = true

		neighbours := region(p)
		if len(neighbours) < minPoints {
			continue
		}

		id := len(clusters)
		members := []int{p}
		labels[p] = id

		queue := neighbours
		for k := 0; k < len(queue); k++ {
			q := queue[k]
			if !visited[q] {
				visited[q] = true
				if more := region(q); len(more) >= minPoints {
					queue = append(queue, more...)
				}
			}
			if labels[q] == unassigned {
				labels[q] = id
				members = append(members, q)
			}
		}

		sort.Ints(members)
		clusters = append(clusters, members)
	}

	var noise []int
	for p, label := range labels {
		if label == unassigned {
			noise = append(noise, p)
		}
	}
	return Result{Clusters: clusters, Noise: noise}
}
