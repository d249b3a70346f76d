package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/pressly/goose"
)

// goose dialect names keyed by STORAGE_TYPE
var gooseDialects = map[string]string{
	"mysql":    "mysql",
	"postgres": "postgres",
}

func Migrate(sqlDB *sql.DB, storageType string, dir string, command string) error {
	dialect, ok := gooseDialects[storageType]
	if !ok {
		return fmt.Errorf("no migrations for storage type %v", storageType)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	log.Printf("Running goose %v on %v (dir=%v)\n", command, dialect, dir)
	var err error
	switch command {
	case "up":
		err = goose.Up(sqlDB, dir)
	case "down":
		err = goose.Down(sqlDB, dir)
	case "status":
		err = goose.Status(sqlDB, dir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %v: %w", command, err)
	}
	return nil
}
