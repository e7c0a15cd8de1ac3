package store

import (
	"database/sql"
	"fmt"
)

// Open returns the store selected by driver. The sqlite store shares db
// with the rest of the application.
func Open(driver string, db *sql.DB, redisAddr, redisPassword, redisPrefix string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLiteStore(db), nil
	case "redis":
		return NewRedisStore(redisAddr, redisPassword, redisPrefix)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
