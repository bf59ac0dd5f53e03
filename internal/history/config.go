package history

import (
	"strconv"

	"codeberg.org/mutker/overtake/internal/errors"
)

const (
	defaultDirPerm      = 0o755
	defaultDBPath       = "/var/lib/overtake/history.db"
	defaultBackupDir    = "/var/lib/overtake/backups"
	defaultBatchSize    = 10
	defaultBatchTimeout = 5
)

// Config controls evaluation recording. Recording is off by default.
type Config struct {
	Enabled      bool
	DBPath       string
	BackupDir    string
	BatchSize    int
	BatchTimeout int // seconds, 0 disables the periodic flush
}

func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath,
		BackupDir:    defaultBackupDir,
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

// Validate is a no-op for a disabled config
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	errFactory := errors.New()
	switch {
	case c.DBPath == "":
		return errFactory.New(ErrInvalidDBPath)
	case c.BatchSize < 1:
		return errFactory.WithData(ErrInvalidConfig, "batch_size="+strconv.Itoa(c.BatchSize))
	case c.BatchTimeout < 0:
		return errFactory.WithData(ErrInvalidConfig, "batch_timeout="+strconv.Itoa(c.BatchTimeout))
	}
	return nil
}
