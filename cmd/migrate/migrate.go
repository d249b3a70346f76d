package main

import (
	"flag"
	"log"

	"github.com/navbryce/next-blog-be/config"
	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/db/sqlstore"
)

// usage: migrate [-dir db/migrations/mysql] up|down|status
func main() {
	dir := flag.String("dir", "", "migrations directory, defaults to MIGRATIONS_DIR")
	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.LoadStorage()
	if err != nil {
		log.Fatal("an error occurred while loading configuration ", err)
	}
	if cfg.StorageType == config.StorageTypeInMemory {
		log.Fatal("the in-memory store has no migrations")
	}
	if *dir == "" {
		*dir = cfg.MigrationsDir
	}

	database, err := sqlstore.GetDatabase(cfg)
	if err != nil {
		log.Fatal("Received err when attempting to connect to DB ", err)
	}
	defer database.Close()

	if err := appDb.Migrate(database.GetSQLDB(), cfg.StorageType, *dir, command); err != nil {
		log.Fatal(err)
	}
}
