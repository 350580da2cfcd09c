// Package graph builds a weighted station graph from route edges and answers
// shortest-path queries. It is pure: persistence of edge mutations (splits,
// bypasses) is left to the caller.
package graph

import (
	"container/heap"
	"strings"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// Graph is a weighted, optionally-directed adjacency map keyed by station
// code. Bidirectional edges contribute an adjacency in both directions.
type Graph struct {
	adjacency map[string][]neighbor
}

type neighbor struct {
	code     string
	distance int
}

// Build constructs a graph from the given edges. Inactive edges are skipped,
// so callers may pass an unfiltered edge list.
func Build(edges []models.RouteEdge) *Graph {
	g := &Graph{adjacency: make(map[string][]neighbor)}
	for _, edge := range edges {
		if !edge.IsActive {
			continue
		}
		from := strings.ToUpper(edge.FromCode)
		to := strings.ToUpper(edge.ToCode)
		g.adjacency[from] = append(g.adjacency[from], neighbor{code: to, distance: edge.Distance})
		if edge.IsBidirectional {
			g.adjacency[to] = append(g.adjacency[to], neighbor{code: from, distance: edge.Distance})
		}
	}
	return g
}

// ShortestPath runs Dijkstra from source to dest and returns the station
// codes along the path (inclusive) and the total distance. found is false
// when dest is unreachable.
func (g *Graph) ShortestPath(source, dest string) (path []string, distance int, found bool) {
	source = strings.ToUpper(strings.TrimSpace(source))
	dest = strings.ToUpper(strings.TrimSpace(dest))

	pq := &itemQueue{}
	heap.Init(pq)
	heap.Push(pq, &item{code: source, distance: 0, path: []string{source}})
	visited := make(map[string]bool)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*item)
		if current.code == dest {
			return current.path, current.distance, true
		}
		if visited[current.code] {
			continue
		}
		visited[current.code] = true

		for _, next := range g.adjacency[current.code] {
			if visited[next.code] {
				continue
			}
			extended := make([]string, len(current.path), len(current.path)+1)
			copy(extended, current.path)
			heap.Push(pq, &item{
				code:     next.code,
				distance: current.distance + next.distance,
				path:     append(extended, next.code),
			})
		}
	}

	return nil, 0, false
}

// item is a priority-queue entry carrying the discovered path so far.
type item struct {
	code     string
	distance int
	path     []string
	order    int // discovery order, breaks distance ties deterministically
	index    int
}

type itemQueue struct {
	items   []*item
	counter int
}

func (q *itemQueue) Len() int { return len(q.items) }

func (q *itemQueue) Less(i, j int) bool {
	if q.items[i].distance != q.items[j].distance {
		return q.items[i].distance < q.items[j].distance
	}
	return q.items[i].order < q.items[j].order
}

func (q *itemQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *itemQueue) Push(x interface{}) {
	it := x.(*item)
	it.order = q.counter
	q.counter++
	it.index = len(q.items)
	q.items = append(q.items, it)
}

func (q *itemQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return it
}
