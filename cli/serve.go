// ABOUTME: Serve CLI command
// ABOUTME: Runs the SQLite-backed reference REST backend until interrupted
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rigboard/config"
	"github.com/harperreed/rigboard/db"
	"github.com/harperreed/rigboard/web"
)

// ServeCommand starts the reference backend. ctx ends the server.
func ServeCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.ListenAddr, "Listen address")
	dbPath := fs.String("db-path", cfg.DBPath, "SQLite database path")
	seed := fs.Bool("seed", false, "Load demo clients, staff, and meetings into an empty database")
	_ = fs.Parse(args)

	database, err := db.OpenDatabase(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	log.Info("reference backend database", "path", *dbPath)

	if *seed {
		if err := db.SeedDemo(database, now()); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		log.Info("demo data loaded")
	}

	server := web.NewServer(database, web.Options{
		Token:    cfg.APIToken,
		TenantID: cfg.TenantID,
		Logger:   log.Default().WithPrefix("web"),
	})
	return server.Start(ctx, *addr)
}
