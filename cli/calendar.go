// ABOUTME: Calendar CLI command
// ABOUTME: Prints a month of calendar events, grouping busy days the way the month view does
package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
)

const monthLayout = "2006-01"

var now = time.Now

// CalendarCommand prints the events of one month.
func CalendarCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	month := fs.String("month", now().Format(monthLayout), "Month to show (YYYY-MM)")
	client := fs.String("client", "", "Filter by client ID")
	_ = fs.Parse(args)

	first, err := time.Parse(monthLayout, *month)
	if err != nil {
		return fmt.Errorf("invalid --month %q: use YYYY-MM", *month)
	}

	if err := loadAll(ctx, st, *client); err != nil {
		return err
	}

	var inMonth []models.Meeting
	for _, m := range st.Visible() {
		if len(m.DateKey()) >= 7 && m.DateKey()[:7] == *month {
			inMonth = append(inMonth, m)
		}
	}

	_, _ = fmt.Fprintln(stdout, render(headingStyle, first.Format("January 2006")))
	if len(inMonth) == 0 {
		_, _ = fmt.Fprintln(stdout, "No meetings this month")
		return nil
	}

	byDay := make(map[string][]meetings.Event)
	for _, e := range meetings.BuildEvents(inMonth) {
		byDay[e.Date] = append(byDay[e.Date], e)
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, d := range days {
		label := d
		if t, err := time.Parse("2006-01-02", d); err == nil {
			label = t.Format("Mon 02")
		}
		for i, e := range byDay[d] {
			if i > 0 {
				label = ""
			}
			if e.IsMore() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t\t\n", label, e.Title)
				for _, m := range e.Meetings {
					_, _ = fmt.Fprintf(w, "\t  %s\t%s\t%s\n", timeRange(m), m.Title, renderStatus(m.Status))
				}
				continue
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, timeRange(*e.Meeting), e.Title, renderStatus(e.Meeting.Status))
		}
	}
	return w.Flush()
}
