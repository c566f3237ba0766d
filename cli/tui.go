// ABOUTME: TUI CLI command
// ABOUTME: Launches the full-screen calendar
package cli

import (
	"context"
	"flag"

	"github.com/harperreed/rigboard/store"
	"github.com/harperreed/rigboard/tui"
)

// TUICommand runs the interactive calendar.
func TUICommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	_ = fs.Parse(args)

	return tui.Run(ctx, st)
}
