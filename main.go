// ABOUTME: Entry point for the rigboard meeting scheduler
// ABOUTME: Routes to the TUI, meeting CLI, MCP server, reference backend, or calendar mirror
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rigboard/api"
	"github.com/harperreed/rigboard/cli"
	"github.com/harperreed/rigboard/config"
	"github.com/harperreed/rigboard/store"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.config/rigboard/config.toml)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("rigboard version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal("invalid log level", "level", cfg.LogLevel)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		fail(cli.ServeCommand(ctx, cfg, commandArgs))

	case "mcp":
		fail(cli.MCPCommand(ctx, newStore(cfg), version))

	case "tui":
		fail(cli.TUICommand(ctx, newStore(cfg), commandArgs))

	case "calendar":
		fail(cli.CalendarCommand(ctx, newStore(cfg), commandArgs))

	case "meetings":
		if len(commandArgs) == 0 {
			fmt.Println("Error: meetings requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		st := newStore(cfg)
		sub := commandArgs[0]
		subArgs := commandArgs[1:]

		switch sub {
		case "list":
			fail(cli.MeetingsListCommand(ctx, st, subArgs))
		case "show":
			fail(cli.MeetingsShowCommand(ctx, st, subArgs))
		case "add":
			fail(cli.MeetingsAddCommand(ctx, st, subArgs))
		case "edit":
			fail(cli.MeetingsEditCommand(ctx, st, subArgs))
		case "reschedule":
			fail(cli.MeetingsRescheduleCommand(ctx, st, subArgs))
		case "status":
			fail(cli.MeetingsStatusCommand(ctx, st, subArgs))
		case "delete":
			fail(cli.MeetingsDeleteCommand(ctx, st, subArgs))
		default:
			fmt.Printf("Unknown meetings command: %s\n\n", sub)
			printUsage()
			os.Exit(1)
		}

	case "config":
		if len(commandArgs) == 0 || commandArgs[0] != "init" {
			fmt.Println("Error: config requires the init subcommand")
			printUsage()
			os.Exit(1)
		}
		fail(cli.ConfigInitCommand(cfg, *configPath, commandArgs[1:]))

	case "gcal":
		if len(commandArgs) == 0 {
			fmt.Println("Error: gcal requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		switch commandArgs[0] {
		case "init":
			fail(cli.GcalInitCommand(ctx, commandArgs[1:]))
		case "push":
			fail(cli.GcalPushCommand(ctx, newStore(cfg), cfg, commandArgs[1:]))
		default:
			fmt.Printf("Unknown gcal command: %s\n\n", commandArgs[0])
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) *store.Store {
	client, err := api.New(api.Options{
		BaseURL:  cfg.APIBaseURL,
		Token:    cfg.APIToken,
		TenantID: cfg.TenantID,
		Timeout:  cfg.Timeout.Duration,
	})
	if err != nil {
		log.Fatal("failed to create API client", "err", err)
	}
	return store.New(client, cfg.PageSize)
}

func fail(err error) {
	if err != nil {
		log.Fatal("Error", "err", err)
	}
}

func printUsage() {
	fmt.Printf(`rigboard v%s - Meeting scheduler for scaffolding and rental crews

USAGE:
  rigboard [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/rigboard/config.toml)
  --log-level <level>    debug, info, warn, error

COMMANDS:
  tui                    Interactive month calendar
  calendar               Print a month of meetings
  meetings               Meeting management commands
  mcp                    Start MCP server for Claude Desktop
  serve                  Run the local reference backend
  gcal                   Mirror meetings into Google Calendar
  config                 Write a starter config file

MEETING COMMANDS:
  rigboard meetings list         List meetings
    --client <id>                  Filter by client
    --all                          Load every page

  rigboard meetings show <id>    Show one meeting

  rigboard meetings add          Schedule a meeting
    --client <id>                  Client ID (required)
    --title <title>                Title (required)
    --date <YYYY-MM-DD>            Date (required)
    --start <HH:mm>                Start time (required)
    --end <HH:mm>                  End time (required)
    --organizer <user id>          Organizer (required)
    --type <type>                  in-person, virtual, phone, hybrid (default: in-person)
    --location, --description      Optional details
    --staff <ids>                  Comma-separated staff user IDs
    --contacts <ids>               Comma-separated client contact IDs
    --external <emails>            Semicolon-separated external emails

  rigboard meetings edit [flags] <id>        Change details; omitted flags keep current values
  rigboard meetings reschedule [flags] <id>  Move a meeting (--date, --start, --end)
  rigboard meetings status --status <s> <id> scheduled, in-progress, completed, cancelled
  rigboard meetings delete <id>              Delete a meeting
    Note: flags must come before the meeting ID

CALENDAR:
  rigboard calendar [--month YYYY-MM] [--client <id>]

REFERENCE BACKEND:
  rigboard serve [--addr host:port] [--db-path <path>] [--seed]

GOOGLE CALENDAR:
  rigboard gcal init             Authorize with Google (GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET)
  rigboard gcal push             Mirror meetings (--client <id>, --calendar <id>)

CONFIGURATION:
  rigboard config init [--api-url <url>] [--token <t>] [--tenant <id>] [--page-size <n>] [--force]

  Settings come from the config file, then .env, then RIGBOARD_* variables:
  RIGBOARD_API_BASE_URL, RIGBOARD_API_TOKEN, RIGBOARD_TENANT_ID, RIGBOARD_PAGE_SIZE,
  RIGBOARD_TIMEOUT, RIGBOARD_LISTEN_ADDR, RIGBOARD_DB_PATH, RIGBOARD_GOOGLE_CALENDAR_ID,
  RIGBOARD_LOG_LEVEL

EXAMPLES:
  # Start the demo backend and open the calendar
  rigboard serve --seed &
  rigboard tui

  # Schedule a site survey
  rigboard meetings add --client acme --title "Site survey" --date 2025-03-10 \
    --start 09:00 --end 10:00 --organizer dana

  # Move it to the next day
  rigboard meetings reschedule --date 2025-03-11 <id>

`, version)
}
