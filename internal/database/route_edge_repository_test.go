package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

var edgeColumns = []string{
	"id", "from_station_id", "to_station_id", "from_code", "to_code",
	"distance", "is_bidirectional", "is_active", "created_at", "updated_at",
}

func testEdge(from, to string, distance int) *models.RouteEdge {
	return &models.RouteEdge{
		ID:              uuid.New().String(),
		FromStationID:   uuid.New().String(),
		ToStationID:     uuid.New().String(),
		FromCode:        from,
		ToCode:          to,
		Distance:        distance,
		IsBidirectional: true,
		IsActive:        true,
	}
}

func TestDirectEdge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRouteEdgeRepository(newMockDatabase(db))

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		id := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM route_edges`).
			WithArgs("AAA", "BBB").
			WillReturnRows(sqlmock.NewRows(edgeColumns).
				AddRow(id, uuid.New().String(), uuid.New().String(), "AAA", "BBB", 12, true, true, now, now))

		edge, err := repo.DirectEdge("aaa", "bbb")
		require.NoError(t, err)
		assert.Equal(t, id, edge.ID)
		assert.Equal(t, 12, edge.Distance)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM route_edges`).
			WithArgs("AAA", "ZZZ").
			WillReturnError(sql.ErrNoRows)

		edge, err := repo.DirectEdge("AAA", "ZZZ")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, edge)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplaceWithSplit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRouteEdgeRepository(newMockDatabase(db))

	oldEdgeID := uuid.New().String()
	first := testEdge("AAA", "XXX", 7)
	second := testEdge("XXX", "BBB", 5)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE route_edges SET is_active = false`).
			WithArgs(oldEdgeID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO route_edges`).
			WithArgs(first.ID, first.FromStationID, first.ToStationID, "AAA", "XXX", 7, true, true).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO route_edges`).
			WithArgs(second.ID, second.FromStationID, second.ToStationID, "XXX", "BBB", 5, true, true).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.ReplaceWithSplit(oldEdgeID, first, second))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Fails Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE route_edges SET is_active = false`).
			WithArgs(oldEdgeID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO route_edges`).
			WillReturnError(fmt.Errorf("constraint violation"))
		mock.ExpectRollback()

		err := repo.ReplaceWithSplit(oldEdgeID, first, second)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert split edge")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeactivateStationWithBypass(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRouteEdgeRepository(newMockDatabase(db))

	stationID := uuid.New().String()
	inEdgeID := uuid.New().String()
	outEdgeID := uuid.New().String()
	bypass := testEdge("AAA", "CCC", 20)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE stations SET is_active = false`).
		WithArgs(stationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE route_edges SET is_active = false`).
		WithArgs(inEdgeID, outEdgeID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO route_edges`).
		WithArgs(bypass.ID, bypass.FromStationID, bypass.ToStationID, "AAA", "CCC", 20, true, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeactivateStationWithBypass(stationID, inEdgeID, outEdgeID, bypass))
	assert.NoError(t, mock.ExpectationsWereMet())
}
