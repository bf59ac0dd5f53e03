package history

import (
	"database/sql"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

// SchemaVersion is bumped whenever the evaluations layout changes. Older
// databases are backed up and recreated, never migrated in place.
const SchemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_versions (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp           INTEGER NOT NULL,
		session_id          TEXT NOT NULL,
		speed               REAL NOT NULL,
		front_speed         REAL NOT NULL,
		distance_to_front   REAL NOT NULL,
		throttle            REAL NOT NULL,
		avg_tire_temp       REAL NOT NULL,
		avg_tire_pressure   REAL NOT NULL,
		healthy_wheels      INTEGER NOT NULL CHECK (healthy_wheels BETWEEN 0 AND 15),
		pass_seconds        REAL,
		pit_laps            INTEGER NOT NULL,
		pit_seconds         REAL NOT NULL,
		current_position    INTEGER NOT NULL,
		predicted_placement INTEGER NOT NULL,
		recommendation      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS evaluations_session_ts ON evaluations (session_id, timestamp)`,
}

// managedTables are dropped, in order, when the schema is recreated
var managedTables = []string{"evaluations", "schema_versions"}

const insertEvaluationSQL = `INSERT INTO evaluations (
	timestamp, session_id,
	speed, front_speed, distance_to_front, throttle,
	avg_tire_temp, avg_tire_pressure, healthy_wheels,
	pass_seconds, pit_laps, pit_seconds,
	current_position, predicted_placement, recommendation
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InitSchema creates the tables and stamps SchemaVersion
func InitSchema(db *sql.DB, log logger.Logger) error {
	err := withTx(db, ErrSchemaInitFailed, log, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(stmt); err != nil {
				return fail(ErrSchemaInitFailed, "create", err)
			}
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`,
			SchemaVersion,
		); err != nil {
			return fail(ErrSchemaInitFailed, "record_version", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("version", SchemaVersion).Msg("History schema initialized")
	return nil
}

// GetSchemaVersion returns the newest recorded version, 0 for an empty
// database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	exists, err := TableExists(db, "schema_versions")
	if err != nil || !exists {
		return 0, err
	}

	var version int
	err = db.QueryRow(`SELECT version FROM schema_versions ORDER BY version DESC LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fail(ErrSchemaValidationFailed, "get_version", err)
	}

	return version, nil
}

func TableExists(db *sql.DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`,
		table,
	).Scan(&exists)
	if err != nil {
		return false, failAt(ErrSchemaValidationFailed, "table_exists", table, err)
	}
	return exists, nil
}
