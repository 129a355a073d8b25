package humiditystn

import (
	log "github.com/sirupsen/logrus"

	"github.com/jmoiron/sqlx"
)

const (
	stmtInsertDataRow = "INSERT INTO observations (timestamp, temperature, humidity, dew_point, interval_secs) " +
		"VALUES (?, ?, ?, ?, ?);"
	queryFetchUnpublishedDataRow = "SELECT timestamp, temperature, humidity, dew_point, interval_secs " +
		"FROM observations WHERE published=false ORDER BY timestamp ASC;"
	stmtUpdateDataRow = "UPDATE observations SET published=true WHERE timestamp BETWEEN ? AND ?;"
)

// ObservationRow is the structure for data passed to and from a DataStore.
type ObservationRow struct {
	Timestamp       int64            `json:"timestamp"`
	Readings        HumidityReadings `json:"readings"`
	IntervalSeconds int              `json:"intervalSecs"`
}

type observationRow struct {
	Timestamp       int64   `db:"timestamp"`
	Temperature     float64 `db:"temperature"`
	Humidity        float64 `db:"humidity"`
	DewPoint        float64 `db:"dew_point"`
	IntervalSeconds int     `db:"interval_secs"`
}

// DataStore is responsible for persisting and reading data from storage.
type DataStore interface {
	Write(ObservationRow) error
	ReadUnpublished() ([]ObservationRow, error)
	UpdatePublished(minTimestamp, maxTimestamp int64) error
}

// SqliteDataStore is an implementation of a DataStore that uses Sqlite statement syntax.
type SqliteDataStore struct {
	db *sqlx.DB
}

// NewSqliteDataStore creates a new SqliteDataStore.
func NewSqliteDataStore(db *sqlx.DB) *SqliteDataStore {
	return &SqliteDataStore{
		db: db,
	}
}

// Write persists the row to disk.
func (sds *SqliteDataStore) Write(row ObservationRow) error {
	_, err := sds.db.Exec(stmtInsertDataRow,
		row.Timestamp,
		row.Readings.Temperature,
		row.Readings.Humidity,
		row.Readings.DewPoint,
		row.IntervalSeconds,
	)
	if err != nil {
		return err
	}

	return nil
}

// ReadUnpublished reads all of the unpublished rows from the database.
func (sds *SqliteDataStore) ReadUnpublished() ([]ObservationRow, error) {
	var rows []observationRow
	err := sds.db.Select(&rows, queryFetchUnpublishedDataRow)
	if err != nil {
		return nil, err
	}

	var observations []ObservationRow
	for _, row := range rows {
		observations = append(observations, ObservationRow{
			Timestamp:       row.Timestamp,
			IntervalSeconds: row.IntervalSeconds,
			Readings: HumidityReadings{
				Temperature: row.Temperature,
				Humidity:    row.Humidity,
				DewPoint:    row.DewPoint,
			},
		})
	}

	return observations, nil
}

// UpdatePublished sets all rows to published where timestamp is between the bounds.
func (sds *SqliteDataStore) UpdatePublished(minTimestamp, maxTimestamp int64) error {
	_, err := sds.db.Exec(stmtUpdateDataRow, minTimestamp, maxTimestamp)
	if err != nil {
		// This doesn't matter too much, we'll just end up resending data upstream which can deal with not duplicating
		// data.
		log.WithError(err).
			WithField("component", "SqliteDataStore").
			WithField("event", "UpdatePublished").
			Error("failed to update published rows")
		return err
	}

	return nil
}
