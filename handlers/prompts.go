// ABOUTME: MCP prompt handlers for reusable scheduling workflow templates
// ABOUTME: Builds meeting briefs and day agendas from the meetings store
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
)

type PromptHandlers struct {
	store *store.Store
}

func NewPromptHandlers(st *store.Store) *PromptHandlers {
	return &PromptHandlers{store: st}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "meeting-brief":
		return h.getMeetingBriefPrompt(ctx, arguments)
	case "day-agenda":
		return h.getDayAgendaPrompt(ctx, arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

// Register adds the prompt templates to server.
func (h *PromptHandlers) Register(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "meeting-brief",
		Description: "Prepare a briefing for one meeting",
		Arguments: []*mcp.PromptArgument{
			{Name: "meeting_id", Description: "Meeting ID", Required: true},
		},
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "day-agenda",
		Description: "Summarize every meeting on one day",
		Arguments: []*mcp.PromptArgument{
			{Name: "date", Description: "Day as YYYY-MM-DD", Required: true},
			{Name: "client_id", Description: "Only meetings for this client"},
		},
	}, h.GetPrompt)
}

func (h *PromptHandlers) getMeetingBriefPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["meeting_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("meeting_id is required")
	}

	m, err := h.store.FetchDetail(ctx, id)
	h.store.ClearDetail()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meeting: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please prepare a briefing for this meeting:\n\n")
	writeMeeting(&promptText, m)
	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. A short agenda suited to the meeting type")
	promptText.WriteString("\n2. Anything attendees should prepare beforehand")
	promptText.WriteString("\n3. Logistics to confirm for the location")

	return userPrompt(fmt.Sprintf("Briefing for meeting: %s", m.Title), promptText.String()), nil
}

func (h *PromptHandlers) getDayAgendaPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	date, ok := args["date"]
	if !ok || date == "" {
		return nil, fmt.Errorf("date is required")
	}

	clientID := args["client_id"]
	if clientID != h.store.Snapshot().ClientFilter {
		h.store.SetClientFilter(clientID)
	}
	if err := h.store.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch meetings: %w", err)
	}

	day := meetings.DayDetail(meetings.GroupByDate(h.store.Visible())[date])

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Here is the schedule for %s:\n", date))
	if len(day) == 0 {
		promptText.WriteString("\nNo meetings are scheduled.\n")
	}
	for _, m := range day {
		promptText.WriteString("\n")
		writeMeeting(&promptText, m)
	}
	promptText.WriteString("\nPlease summarize the day, flag tight gaps between meetings, and note any cancelled items.")

	return userPrompt(fmt.Sprintf("Agenda for %s", date), promptText.String()), nil
}

func writeMeeting(b *strings.Builder, m models.Meeting) {
	b.WriteString(fmt.Sprintf("Title: %s\n", m.Title))
	if m.ClientName != "" {
		b.WriteString(fmt.Sprintf("Client: %s\n", m.ClientName))
	}
	b.WriteString(fmt.Sprintf("When: %s %s-%s\n", m.DateKey(), meetings.DisplayTime(m.StartTime), meetings.DisplayTime(m.EndTime)))
	b.WriteString(fmt.Sprintf("Type: %s\n", m.Type))
	b.WriteString(fmt.Sprintf("Status: %s\n", m.Status))
	if m.Location != "" {
		b.WriteString(fmt.Sprintf("Location: %s\n", m.Location))
	}
	if m.OrganizerName != "" {
		b.WriteString(fmt.Sprintf("Organizer: %s\n", m.OrganizerName))
	}
	attendees := len(m.AttendeeUserIDs) + len(m.AttendeeContactIDs) + len(m.ExternalAttendees)
	if attendees > 0 {
		b.WriteString(fmt.Sprintf("Attendees: %d\n", attendees))
	}
	if m.Description != "" {
		b.WriteString(fmt.Sprintf("Notes: %s\n", m.Description))
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
