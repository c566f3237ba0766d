// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server exposing meeting tools, lookup resources, and prompts
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/rigboard/handlers"
	"github.com/harperreed/rigboard/store"
)

// NewMCPServer builds the server with every tool, resource, and prompt registered.
func NewMCPServer(st *store.Store, version string) *mcp.Server {
	meetingHandlers := handlers.NewMeetingHandlers(st)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "rigboard",
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_meetings",
		Description: "List meetings a page at a time, optionally filtered by client",
	}, meetingHandlers.ListMeetings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_meeting",
		Description: "Get one meeting by ID; pass client_id to load the editable record with its attendee breakdown",
	}, meetingHandlers.GetMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_meeting",
		Description: "Schedule a new meeting for a client",
	}, meetingHandlers.CreateMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_meeting",
		Description: "Update a meeting's details; omitted fields keep their current values. Completed and cancelled meetings cannot be changed",
	}, meetingHandlers.UpdateMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reschedule_meeting",
		Description: "Move a meeting to a new date and time",
	}, meetingHandlers.RescheduleMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_meeting",
		Description: "Delete a meeting that is not completed or cancelled",
	}, meetingHandlers.DeleteMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "calendar_day",
		Description: "Show the meetings on one date in start order, as the calendar's day view does",
	}, meetingHandlers.CalendarDay)

	handlers.NewResourceHandlers(st).Register(server)
	handlers.NewPromptHandlers(st).Register(server)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, st *store.Store, version string) error {
	log.Info("starting rigboard MCP server")
	return NewMCPServer(st, version).Run(ctx, &mcp.StdioTransport{})
}
