// ABOUTME: Hover preview for the calendar cursor
// ABOUTME: Holds the preview lines for one day and renders them as a bordered box
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

var tooltipStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(0, 1)

// tooltip previews the meetings under the calendar cursor. It is owned by the
// calendar view and discarded by setView.
type tooltip struct {
	date  string
	lines []string
}

func newTooltip(date string, events []meetings.Event) *tooltip {
	if len(events) == 0 {
		return nil
	}
	t := &tooltip{date: date}
	for _, e := range events {
		if e.IsMore() {
			t.lines = append(t.lines, e.Title)
			for _, m := range e.Meetings {
				t.lines = append(t.lines, "  "+previewLine(m))
			}
			continue
		}
		t.lines = append(t.lines, previewLine(*e.Meeting))
		if e.Meeting.ClientName != "" {
			t.lines = append(t.lines, "  "+e.Meeting.ClientName)
		}
	}
	return t
}

func previewLine(m models.Meeting) string {
	return fmt.Sprintf("%s-%s %s (%s)",
		meetings.DisplayTime(m.StartTime), meetings.DisplayTime(m.EndTime), m.Title, m.Status)
}

func (t *tooltip) View() string {
	if t == nil {
		return ""
	}
	return tooltipStyle.Render(t.date + "\n" + strings.Join(t.lines, "\n"))
}
