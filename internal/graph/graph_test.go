package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

func edge(from, to string, distance int, bidirectional bool) models.RouteEdge {
	return models.RouteEdge{
		FromCode:        from,
		ToCode:          to,
		Distance:        distance,
		IsBidirectional: bidirectional,
		IsActive:        true,
	}
}

func TestShortestPathPrefersCheaperRoute(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("A", "B", 10, true),
		edge("B", "C", 15, true),
		edge("A", "C", 30, false),
	})

	path, distance, found := g.ShortestPath("A", "C")
	require.True(t, found)
	assert.Equal(t, []string{"A", "B", "C"}, path)
	assert.Equal(t, 25, distance)
}

func TestShortestPathDirectWhenCheaper(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("A", "B", 10, true),
		edge("B", "C", 15, true),
		edge("A", "C", 20, false),
	})

	path, distance, found := g.ShortestPath("A", "C")
	require.True(t, found)
	assert.Equal(t, []string{"A", "C"}, path)
	assert.Equal(t, 20, distance)
}

func TestShortestPathBidirectionalReverse(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("A", "B", 10, true),
		edge("B", "C", 15, true),
	})

	path, distance, found := g.ShortestPath("C", "A")
	require.True(t, found)
	assert.Equal(t, []string{"C", "B", "A"}, path)
	assert.Equal(t, 25, distance)
}

func TestShortestPathUnidirectionalBlocksReverse(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("A", "B", 10, false),
	})

	_, _, found := g.ShortestPath("B", "A")
	assert.False(t, found)
}

func TestShortestPathUnreachable(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("A", "B", 10, true),
		edge("C", "D", 5, true),
	})

	path, distance, found := g.ShortestPath("A", "D")
	assert.False(t, found)
	assert.Nil(t, path)
	assert.Zero(t, distance)
}

func TestShortestPathSkipsInactiveEdges(t *testing.T) {
	inactive := edge("A", "B", 10, true)
	inactive.IsActive = false
	g := Build([]models.RouteEdge{
		inactive,
		edge("A", "C", 5, true),
		edge("C", "B", 5, true),
	})

	path, distance, found := g.ShortestPath("A", "B")
	require.True(t, found)
	assert.Equal(t, []string{"A", "C", "B"}, path)
	assert.Equal(t, 10, distance)
}

func TestShortestPathNormalizesCase(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("a", "b", 7, true),
	})

	path, distance, found := g.ShortestPath(" a ", "B")
	require.True(t, found)
	assert.Equal(t, []string{"A", "B"}, path)
	assert.Equal(t, 7, distance)
}

func TestShortestPathSourceIsDest(t *testing.T) {
	g := Build([]models.RouteEdge{
		edge("A", "B", 10, true),
	})

	path, distance, found := g.ShortestPath("A", "A")
	require.True(t, found)
	assert.Equal(t, []string{"A"}, path)
	assert.Zero(t, distance)
}
