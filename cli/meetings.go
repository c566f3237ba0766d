// ABOUTME: Meeting CLI commands
// ABOUTME: List, show, create, edit, reschedule, change status, and delete meetings through the store
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
)

var typeNames = map[string]models.MeetingType{
	"in-person": models.TypeInPerson,
	"virtual":   models.TypeVirtual,
	"phone":     models.TypePhone,
	"hybrid":    models.TypeHybrid,
}

var statusNames = map[string]models.MeetingStatus{
	"scheduled":   models.StatusScheduled,
	"in-progress": models.StatusInProgress,
	"completed":   models.StatusCompleted,
	"cancelled":   models.StatusCancelled,
}

func parseType(s string) (models.MeetingType, error) {
	if t, ok := typeNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !models.MeetingType(n).Valid() {
		return 0, fmt.Errorf("invalid meeting type %q (use in-person, virtual, phone, hybrid)", s)
	}
	return models.MeetingType(n), nil
}

func parseStatus(s string) (models.MeetingStatus, error) {
	if st, ok := statusNames[strings.ToLower(s)]; ok {
		return st, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !models.MeetingStatus(n).Valid() {
		return 0, fmt.Errorf("invalid status %q (use scheduled, in-progress, completed, cancelled)", s)
	}
	return models.MeetingStatus(n), nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseContactIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range splitCSV(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid contact id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// meetingFlags are the editable fields shared by add and edit.
type meetingFlags struct {
	title       *string
	description *string
	location    *string
	date        *string
	start       *string
	end         *string
	meetingType *string
	organizer   *string
	staff       *string
	contacts    *string
	external    *string
}

func registerMeetingFlags(fs *flag.FlagSet) meetingFlags {
	return meetingFlags{
		title:       fs.String("title", "", "Meeting title"),
		description: fs.String("description", "", "Description"),
		location:    fs.String("location", "", "Location"),
		date:        fs.String("date", "", "Date (YYYY-MM-DD)"),
		start:       fs.String("start", "", "Start time (HH:mm)"),
		end:         fs.String("end", "", "End time (HH:mm)"),
		meetingType: fs.String("type", "in-person", "Meeting type: in-person, virtual, phone, hybrid"),
		organizer:   fs.String("organizer", "", "Organizer user ID"),
		staff:       fs.String("staff", "", "Comma-separated staff user IDs"),
		contacts:    fs.String("contacts", "", "Comma-separated client contact IDs"),
		external:    fs.String("external", "", "Semicolon-separated external emails"),
	}
}

// apply copies the flags in set onto v. Flags not in set leave v alone.
func (f meetingFlags) apply(v *meetings.Values, set map[string]bool) error {
	if set["title"] {
		v.Title = *f.title
	}
	if set["description"] {
		v.Description = *f.description
	}
	if set["location"] {
		v.Location = *f.location
	}
	if set["date"] {
		v.Date = *f.date
	}
	if set["start"] {
		v.StartTime = *f.start
	}
	if set["end"] {
		v.EndTime = *f.end
	}
	if set["type"] {
		t, err := parseType(*f.meetingType)
		if err != nil {
			return err
		}
		v.Type = t
	}
	if set["organizer"] {
		v.OrganizerUserID = *f.organizer
	}
	if set["staff"] {
		v.AttendeeUserIDs = splitCSV(*f.staff)
	}
	if set["contacts"] {
		ids, err := parseContactIDs(*f.contacts)
		if err != nil {
			return err
		}
		v.AttendeeContactIDs = ids
	}
	if set["external"] {
		v.ExternalAttendees = *f.external
	}
	return nil
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// submit runs the form and turns validation failures into a field listing.
func submit(ctx context.Context, st *store.Store, form *meetings.Form) (models.Meeting, error) {
	saved, err := form.Submit(ctx, st)
	switch {
	case errors.Is(err, meetings.ErrValidation):
		printFieldErrors(form.Errors)
		return models.Meeting{}, fmt.Errorf("meeting not saved")
	case errors.Is(err, meetings.ErrNotPermitted):
		return models.Meeting{}, fmt.Errorf("meeting is %s and cannot be changed", strings.ToLower(form.Status.String()))
	}
	return saved, err
}

// loadAll fetches every page for clientID into the store.
func loadAll(ctx context.Context, st *store.Store, clientID string) error {
	st.SetClientFilter(clientID)
	if err := st.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load meetings: %w", err)
	}
	return nil
}

// MeetingsListCommand lists meetings a page at a time.
func MeetingsListCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	client := fs.String("client", "", "Filter by client ID")
	all := fs.Bool("all", false, "Load every page")
	_ = fs.Parse(args)

	if *all {
		if err := loadAll(ctx, st, *client); err != nil {
			return err
		}
	} else {
		st.SetClientFilter(*client)
		if err := st.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to load meetings: %w", err)
		}
	}

	items := st.Visible()
	if len(items) == 0 {
		_, _ = fmt.Fprintln(stdout, "No meetings found")
		return nil
	}

	printMeetingTable(items)

	snap := st.Snapshot()
	if snap.HasMore {
		_, _ = fmt.Fprintln(stdout, render(mutedStyle, fmt.Sprintf("\nShowing %d of %d (use --all for every page)", len(items), snap.TotalCount)))
	}
	return nil
}

// MeetingsShowCommand prints one meeting.
func MeetingsShowCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: meetings show <id>")
	}

	defer st.ClearDetail()

	m, err := st.FetchDetail(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	printMeeting(m)
	return nil
}

// MeetingsAddCommand creates a meeting.
func MeetingsAddCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	client := fs.String("client", "", "Client ID (required)")
	mf := registerMeetingFlags(fs)
	_ = fs.Parse(args)

	form := meetings.NewCreateForm()
	set := visited(fs)
	set["type"] = true
	if err := mf.apply(&form.Values, set); err != nil {
		return err
	}

	if *client != "" {
		contacts, err := st.Contacts(ctx, *client)
		if err != nil {
			return fmt.Errorf("failed to load client contacts: %w", err)
		}
		form.SetContacts(contacts)
		if err := form.SetClient(*client); err != nil {
			return err
		}
		// SetClient drops unknown contacts; restore the request so validation reports them.
		if set["contacts"] {
			form.Values.AttendeeContactIDs, _ = parseContactIDs(*mf.contacts)
		}
	}

	saved, err := submit(ctx, st, form)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "✓ Meeting created: %s (ID: %s)\n", saved.Title, saved.ID)
	_, _ = fmt.Fprintf(stdout, "  When: %s %s\n", saved.DateKey(), timeRange(saved))
	return nil
}

// MeetingsEditCommand updates the fields given as flags and keeps the rest.
func MeetingsEditCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	client := fs.String("client", "", "Client ID (looked up when omitted)")
	mf := registerMeetingFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: meetings edit [flags] <id>")
	}

	defer st.ClearDetail()
	id := fs.Arg(0)

	clientID := *client
	if clientID == "" {
		m, err := st.FetchDetail(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load meeting: %w", err)
		}
		clientID = m.ClientID
	}

	current, err := st.FetchForEdit(ctx, id, clientID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if !meetings.CanEdit(current) {
		return fmt.Errorf("meeting is %s and cannot be changed", strings.ToLower(current.Status.String()))
	}

	form := meetings.NewEditForm(current)
	contacts, err := st.Contacts(ctx, current.ClientID)
	if err != nil {
		return fmt.Errorf("failed to load client contacts: %w", err)
	}
	form.SetContacts(contacts)

	if err := mf.apply(&form.Values, visited(fs)); err != nil {
		return err
	}

	saved, err := submit(ctx, st, form)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "✓ Meeting updated: %s\n", saved.Title)
	return nil
}

// MeetingsRescheduleCommand moves a meeting. Omitted flags keep the current value.
func MeetingsRescheduleCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("reschedule", flag.ExitOnError)
	date := fs.String("date", "", "New date (YYYY-MM-DD)")
	start := fs.String("start", "", "New start time (HH:mm)")
	end := fs.String("end", "", "New end time (HH:mm)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: meetings reschedule [flags] <id>")
	}

	defer st.ClearDetail()

	current, err := st.FetchDetail(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}

	form := meetings.NewRescheduleForm(current)
	if *date != "" {
		form.Values.NewDate = *date
	}
	if *start != "" {
		form.Values.NewStartTime = *start
	}
	if *end != "" {
		form.Values.NewEndTime = *end
	}

	saved, err := submit(ctx, st, form)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "✓ Meeting rescheduled: %s\n", saved.Title)
	_, _ = fmt.Fprintf(stdout, "  When: %s %s\n", saved.DateKey(), timeRange(saved))
	return nil
}

// MeetingsStatusCommand moves a meeting through its lifecycle.
func MeetingsStatusCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	status := fs.String("status", "", "New status: scheduled, in-progress, completed, cancelled (required)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 || *status == "" {
		return fmt.Errorf("usage: meetings status --status <status> <id>")
	}

	defer st.ClearDetail()
	next, err := parseStatus(*status)
	if err != nil {
		return err
	}

	current, err := st.FetchDetail(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meetings.IsTerminal(current.Status) {
		return fmt.Errorf("meeting is %s and cannot be changed", strings.ToLower(current.Status.String()))
	}

	saved, err := st.SetStatus(ctx, current.ID, next)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "✓ Meeting %s: %s\n", strings.ToLower(saved.Status.String()), saved.Title)
	return nil
}

// MeetingsDeleteCommand removes a meeting.
func MeetingsDeleteCommand(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: meetings delete <id>")
	}

	defer st.ClearDetail()

	current, err := st.FetchDetail(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if !meetings.CanDelete(current) {
		return fmt.Errorf("meeting is %s and cannot be deleted", strings.ToLower(current.Status.String()))
	}

	if err := st.Delete(ctx, current.ID); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "✓ Meeting deleted: %s\n", current.Title)
	return nil
}
