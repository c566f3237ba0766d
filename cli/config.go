// ABOUTME: Config CLI command
// ABOUTME: Writes a starter TOML config from the current settings and flags
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/rigboard/config"
)

// ConfigInitCommand saves cfg, with any flag overrides, to path. An existing
// file is only replaced with --force.
func ConfigInitCommand(cfg *config.Config, path string, args []string) error {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	apiURL := fs.String("api-url", "", "Meetings API base URL")
	token := fs.String("token", "", "API bearer token")
	tenant := fs.String("tenant", "", "Tenant ID")
	pageSize := fs.Int("page-size", 0, "Meetings per page")
	force := fs.Bool("force", false, "Overwrite an existing config file")
	_ = fs.Parse(args)

	if path == "" {
		path = config.Path()
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	out := *cfg
	if *apiURL != "" {
		out.APIBaseURL = *apiURL
	}
	if *token != "" {
		out.APIToken = *token
	}
	if *tenant != "" {
		out.TenantID = *tenant
	}
	if *pageSize != 0 {
		out.PageSize = *pageSize
	}
	if err := out.Validate(); err != nil {
		return err
	}

	if err := out.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Config written: %s\n", path)
	return nil
}
