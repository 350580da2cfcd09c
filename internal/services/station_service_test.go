package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

var stationColumns = []string{
	"id", "name", "code", "city", "state", "is_active",
	"station_master_id", "created_at", "updated_at",
}

var edgeColumns = []string{
	"id", "from_station_id", "to_station_id", "from_code", "to_code",
	"distance", "is_bidirectional", "is_active", "created_at", "updated_at",
}

func newStationFixture(t *testing.T) (*StationService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mockDB := &mockDatabase{db: sqlx.NewDb(db, "sqlmock")}
	svc := NewStationService(
		database.NewStationRepository(mockDB),
		database.NewRouteEdgeRepository(mockDB),
		database.NewUserRepository(mockDB),
		testLogger(),
	)
	return svc, mock, func() { db.Close() }
}

func stationRow(id, code string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(stationColumns).
		AddRow(id, "Station "+code, code, "City", "State", true, nil, now, now)
}

func edgeRow(id, fromID, toID, fromCode, toCode string, distance int, bidirectional bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(edgeColumns).
		AddRow(id, fromID, toID, fromCode, toCode, distance, bidirectional, true, now, now)
}

func TestStationDeactivateWithBypass(t *testing.T) {
	svc, mock, closeDB := newStationFixture(t)
	defer closeDB()

	stationID := uuid.New().String()
	neighbourA := uuid.New().String()
	neighbourB := uuid.New().String()
	inEdgeID := uuid.New().String()
	outEdgeID := uuid.New().String()

	mock.ExpectQuery(`SELECT (.+) FROM stations WHERE code`).
		WithArgs("XXX").
		WillReturnRows(stationRow(stationID, "XXX"))
	mock.ExpectQuery(`SELECT (.+) FROM route_edges WHERE to_station_id`).
		WithArgs(stationID).
		WillReturnRows(edgeRow(inEdgeID, neighbourA, stationID, "AAA", "XXX", 7, true))
	mock.ExpectQuery(`SELECT (.+) FROM route_edges WHERE from_station_id`).
		WithArgs(stationID).
		WillReturnRows(edgeRow(outEdgeID, stationID, neighbourB, "XXX", "BBB", 5, true))

	// one in, one out: the neighbours are bridged with the summed distance
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE stations SET is_active = false`).
		WithArgs(stationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE route_edges SET is_active = false`).
		WithArgs(inEdgeID, outEdgeID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO route_edges`).
		WithArgs(sqlmock.AnyArg(), neighbourA, neighbourB, "AAA", "BBB", 12, true, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Deactivate("XXX"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationDeactivateJunctionNoBypass(t *testing.T) {
	svc, mock, closeDB := newStationFixture(t)
	defer closeDB()

	stationID := uuid.New().String()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM stations WHERE code`).
		WithArgs("XXX").
		WillReturnRows(stationRow(stationID, "XXX"))
	// two inbound edges make this a junction
	mock.ExpectQuery(`SELECT (.+) FROM route_edges WHERE to_station_id`).
		WithArgs(stationID).
		WillReturnRows(sqlmock.NewRows(edgeColumns).
			AddRow(uuid.New().String(), uuid.New().String(), stationID, "AAA", "XXX", 7, true, true, now, now).
			AddRow(uuid.New().String(), uuid.New().String(), stationID, "CCC", "XXX", 4, true, true, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM route_edges WHERE from_station_id`).
		WithArgs(stationID).
		WillReturnRows(edgeRow(uuid.New().String(), stationID, uuid.New().String(), "XXX", "BBB", 5, true))

	mock.ExpectExec(`UPDATE stations SET is_active = false`).
		WithArgs(stationID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Deactivate("XXX"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationDeactivateSelfLoopNoBypass(t *testing.T) {
	svc, mock, closeDB := newStationFixture(t)
	defer closeDB()

	stationID := uuid.New().String()
	neighbour := uuid.New().String()

	mock.ExpectQuery(`SELECT (.+) FROM stations WHERE code`).
		WithArgs("XXX").
		WillReturnRows(stationRow(stationID, "XXX"))
	// both edges connect to the same neighbour, a bypass would be a self-edge
	mock.ExpectQuery(`SELECT (.+) FROM route_edges WHERE to_station_id`).
		WithArgs(stationID).
		WillReturnRows(edgeRow(uuid.New().String(), neighbour, stationID, "AAA", "XXX", 7, true))
	mock.ExpectQuery(`SELECT (.+) FROM route_edges WHERE from_station_id`).
		WithArgs(stationID).
		WillReturnRows(edgeRow(uuid.New().String(), stationID, neighbour, "XXX", "AAA", 7, true))

	mock.ExpectExec(`UPDATE stations SET is_active = false`).
		WithArgs(stationID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Deactivate("XXX"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationCreateDuplicateCode(t *testing.T) {
	svc, mock, closeDB := newStationFixture(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("CBF").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(&models.CreateStationRequest{
		Name: "Colombo Fort", Code: "cbf", City: "Colombo", State: "Western",
	})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationCreateDuplicateName(t *testing.T) {
	svc, mock, closeDB := newStationFixture(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("CBF").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Colombo Fort").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(&models.CreateStationRequest{
		Name: "Colombo Fort", Code: "CBF", City: "Colombo", State: "Western",
	})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationCreateInvalidCode(t *testing.T) {
	svc, _, closeDB := newStationFixture(t)
	defer closeDB()

	_, err := svc.Create(&models.CreateStationRequest{
		Name: "Colombo Fort", Code: "c1!", City: "Colombo", State: "Western",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// mockDatabase adapts a sqlmock connection to the database.DB interface.
type mockDatabase struct {
	db *sqlx.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return m.db.Get(dest, query, args...)
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return m.db.Select(dest, query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) Begin() (*sql.Tx, error) {
	return m.db.DB.Begin()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}
