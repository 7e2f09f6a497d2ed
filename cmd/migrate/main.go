// Command migrate applies or rolls back the schema migrations.
//
// Usage:
//
//	migrate up
//	migrate down
//	migrate to <version>
//	migrate version
//
// Connection settings come from the same configuration as the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/database"
	"github.com/association-site-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate up | down | to <version> | version")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if cfg.Database.Driver == config.DriverMemory {
		log.Fatal().Msg("The memory driver has no schema to migrate")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	path := cfg.Database.MigrationsPath

	switch flag.Arg(0) {
	case "up":
		err = db.RunMigrations(path)
	case "down":
		err = db.MigrateDown(path)
	case "to":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(2)
		}
		var version uint64
		version, err = strconv.ParseUint(flag.Arg(1), 10, 32)
		if err != nil {
			log.Fatal().Err(err).Str("version", flag.Arg(1)).Msg("Invalid version")
		}
		err = db.MigrateToVersion(path, uint(version))
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = db.Version(path)
		if err == nil {
			fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Migration failed")
	}
}
