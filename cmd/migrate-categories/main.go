// Command migrate-categories rewrites articles stored under a localized
// category label (for example "खेल") to the canonical key ("sports").
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/config"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
)

func main() {
	var driver, dsn string
	flag.StringVar(&driver, "driver", "", "database driver (sqlite or postgres); defaults to DB_DRIVER")
	flag.StringVar(&dsn, "dsn", "", "database path or connection string; defaults to the configured database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if driver == "" {
		driver = cfg.DBDriver
	}
	if dsn == "" {
		dsn = cfg.DatabaseTarget()
	}

	gdb, err := db.Open(db.Options{Driver: driver, DSN: dsn})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}

	categories := service.NewCategoryService(gdb)
	result, err := categories.MigrateLegacyCategories(context.Background(), access.Capabilities{CanAdmin: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate categories: %v\n", err)
		os.Exit(1)
	}

	changes := make([]string, 0, len(result.Changes))
	for change := range result.Changes {
		changes = append(changes, change)
	}
	sort.Strings(changes)
	for _, change := range changes {
		fmt.Printf("  %s: %d\n", change, result.Changes[change])
	}
	fmt.Printf("done: scanned %d articles, updated %d\n", result.Scanned, result.Updated)
}
