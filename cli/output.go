// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Tabwriter tables, meeting summaries, and lipgloss styling when stdout is a terminal
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

// stdout is swapped out by tests.
var stdout io.Writer = os.Stdout

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyles = map[string]lipgloss.Style{
		meetings.ClassInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		meetings.ClassWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		meetings.ClassSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		meetings.ClassDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// styled reports whether output goes to a terminal.
func styled() bool {
	f, ok := stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render(style lipgloss.Style, s string) string {
	if !styled() {
		return s
	}
	return style.Render(s)
}

func renderStatus(status models.MeetingStatus) string {
	style := statusStyles[meetings.StatusClass(status)]
	if meetings.StruckThrough(status) {
		style = style.Strikethrough(true)
	}
	return render(style, status.String())
}

func timeRange(m models.Meeting) string {
	return meetings.DisplayTime(m.StartTime) + "-" + meetings.DisplayTime(m.EndTime)
}

func printMeetingTable(ms []models.Meeting) {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tTIME\tTITLE\tCLIENT\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t------\t------\t--")
	for _, m := range ms {
		client := m.ClientName
		if client == "" {
			client = m.ClientID
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.DateKey(), timeRange(m), m.Title, client, renderStatus(m.Status), m.ID)
	}
	_ = w.Flush()
}

func printMeeting(m models.Meeting) {
	_, _ = fmt.Fprintln(stdout, render(headingStyle, m.Title))
	_, _ = fmt.Fprintf(stdout, "  ID:        %s\n", m.ID)
	client := m.ClientID
	if m.ClientName != "" {
		client = fmt.Sprintf("%s (%s)", m.ClientName, m.ClientID)
	}
	_, _ = fmt.Fprintf(stdout, "  Client:    %s\n", client)
	_, _ = fmt.Fprintf(stdout, "  When:      %s %s\n", m.DateKey(), timeRange(m))
	_, _ = fmt.Fprintf(stdout, "  Type:      %s\n", m.Type)
	_, _ = fmt.Fprintf(stdout, "  Status:    %s\n", renderStatus(m.Status))
	if m.Location != "" {
		_, _ = fmt.Fprintf(stdout, "  Location:  %s\n", m.Location)
	}
	organizer := m.OrganizerUserID
	if m.OrganizerName != "" {
		organizer = m.OrganizerName
	}
	_, _ = fmt.Fprintf(stdout, "  Organizer: %s\n", organizer)
	if len(m.AttendeeUserIDs) > 0 {
		_, _ = fmt.Fprintf(stdout, "  Staff:     %s\n", strings.Join(m.AttendeeUserIDs, ", "))
	}
	if len(m.AttendeeContactIDs) > 0 {
		ids := make([]string, 0, len(m.AttendeeContactIDs))
		for _, id := range m.AttendeeContactIDs {
			ids = append(ids, fmt.Sprint(id))
		}
		_, _ = fmt.Fprintf(stdout, "  Contacts:  %s\n", strings.Join(ids, ", "))
	}
	if len(m.ExternalAttendees) > 0 {
		_, _ = fmt.Fprintf(stdout, "  External:  %s\n", strings.Join(m.ExternalAttendees, ", "))
	}
	if m.Description != "" {
		_, _ = fmt.Fprintf(stdout, "\n%s\n", m.Description)
	}
	if help := allowedActions(m); help != "" {
		_, _ = fmt.Fprintln(stdout, render(mutedStyle, "\n"+help))
	}
}

// allowedActions lists the subcommands permitted for m.
func allowedActions(m models.Meeting) string {
	var actions []string
	if meetings.CanEdit(m) {
		actions = append(actions, "edit")
	}
	if meetings.CanReschedule(m) {
		actions = append(actions, "reschedule")
	}
	if meetings.CanDelete(m) {
		actions = append(actions, "delete")
	}
	if len(actions) == 0 {
		return "No changes allowed: meeting is " + strings.ToLower(m.Status.String())
	}
	return "Actions: " + strings.Join(actions, ", ")
}

// printFieldErrors writes one line per invalid field.
func printFieldErrors(fe meetings.FieldErrors) {
	_, _ = fmt.Fprintln(stdout, "Invalid meeting:")
	for _, line := range strings.Split(fe.Error(), "; ") {
		_, _ = fmt.Fprintf(stdout, "  %s\n", line)
	}
}
