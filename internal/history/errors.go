package history

import "codeberg.org/mutker/overtake/internal/errors"

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("history_invalid_db_path")

	ErrSchemaInitFailed       = errors.ErrorCode("history_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("history_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("history_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("history_transaction_failed")

	ErrStorageInit  = errors.ErrInitHistory
	ErrStorageClose = errors.ErrCloseHistory

	ErrRecordFailed     = errors.ErrRecordHistory
	ErrInvalidRecord    = errors.ErrorCode("history_invalid_record")
	ErrOperationTimeout = errors.ErrTimeout
)
