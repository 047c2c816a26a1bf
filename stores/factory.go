package stores

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTraceStore opens a trace store of the given type.
// storeType is "sqlite" (connection is a file path) or "postgres"
// (connection is a DSN).
func NewTraceStore(storeType, connection string) (TraceStore, error) {
	var dialector gorm.Dialector
	switch storeType {
	case "sqlite":
		dialector = sqlite.Open(connection)
	case "postgres":
		dialector = postgres.Open(connection)
	default:
		return nil, fmt.Errorf("unsupported trace store type: %s", storeType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s trace store: %w", storeType, err)
	}
	return NewGORMTraceStore(db)
}
