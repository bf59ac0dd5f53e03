package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/overtake/internal/logger"
)

// ValidateAndUpdateSchema leaves a current database alone, initializes an
// empty one, and backs up then recreates one with any other version.
func ValidateAndUpdateSchema(db *sql.DB, backupDir string, log logger.Logger) error {
	version, err := GetSchemaVersion(db)
	if err != nil {
		return err
	}

	switch version {
	case SchemaVersion:
		log.Debug().Int("version", version).Msg("History schema is current")
		return nil
	case 0:
		log.Debug().Msg("Creating history database")
	default:
		log.Warn().
			Int("found", version).
			Int("expected", SchemaVersion).
			Msg("History schema version mismatch, recreating")
		if _, err := backupDatabase(db, backupDir, version, log); err != nil {
			return err
		}
	}

	if err := dropTables(db, log); err != nil {
		return err
	}
	return InitSchema(db, log)
}

// backupDatabase copies the live database with VACUUM INTO, which needs
// no open transaction.
func backupDatabase(db *sql.DB, backupDir string, version int, log logger.Logger) (string, error) {
	if err := os.MkdirAll(backupDir, defaultDirPerm); err != nil {
		return "", failAt(ErrSchemaMigrationFailed, "create_backup_dir", backupDir, err)
	}

	name := fmt.Sprintf("history_v%d_%s.db", version, time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(backupDir, name)

	if _, err := db.Exec("VACUUM INTO '" + strings.ReplaceAll(path, "'", "''") + "'"); err != nil {
		return "", failAt(ErrSchemaMigrationFailed, "backup", path, err)
	}

	log.Info().Str("path", path).Int("version", version).Msg("History database backed up")
	return path, nil
}

func dropTables(db *sql.DB, log logger.Logger) error {
	return withTx(db, ErrSchemaMigrationFailed, log, func(tx *sql.Tx) error {
		for _, table := range managedTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return failAt(ErrSchemaMigrationFailed, "drop_table", table, err)
			}
		}
		return nil
	})
}
