// ABOUTME: Async commands and result messages for the TUI
// ABOUTME: Wraps store thunks so bubbletea runs network calls off the update loop
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

type initialLoadedMsg struct {
	clients []models.Client
	err     error
}

type meetingsLoadedMsg struct {
	err error
}

type editLoadedMsg struct {
	meeting  models.Meeting
	contacts []models.ClientContact
	err      error
}

// savedMsg carries the form back from the submit goroutine, so banner and
// field errors are only ever written to a copy the view is not reading.
type savedMsg struct {
	form    *meetings.Form
	meeting models.Meeting
	err     error
}

type deletedMsg struct {
	id  string
	err error
}

func (m Model) loadInitial() tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		clients, err := st.Clients(ctx)
		if err != nil {
			return initialLoadedMsg{err: err}
		}
		return initialLoadedMsg{clients: clients, err: st.LoadAll(ctx)}
	}
}

// refresh reconciles the list with the server. The agenda restarts at page
// 1 and scrolls for more; every other view groups by day and needs all pages.
func (m Model) refresh() tea.Cmd {
	st, ctx := m.store, m.ctx
	if m.viewMode == ViewAgenda {
		return func() tea.Msg {
			return meetingsLoadedMsg{err: st.Refresh(ctx)}
		}
	}
	return func() tea.Msg {
		return meetingsLoadedMsg{err: st.LoadAll(ctx)}
	}
}

// loadMore requests the next page. It returns nil when no page remains or a
// fetch is already running.
func (m Model) loadMore() tea.Cmd {
	snap := m.store.Snapshot()
	if !snap.HasMore || snap.Loading {
		return nil
	}
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := st.LoadMore(ctx)
		return meetingsLoadedMsg{err: err}
	}
}

// loadForEdit fetches the client-scoped edit record and its contacts.
func (m Model) loadForEdit(id, clientID string) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		meeting, err := st.FetchForEdit(ctx, id, clientID)
		if err != nil {
			return editLoadedMsg{err: err}
		}
		contacts, err := st.Contacts(ctx, clientID)
		return editLoadedMsg{meeting: meeting, contacts: contacts, err: err}
	}
}

func (m Model) submit(form *meetings.Form) tea.Cmd {
	st, ctx := m.store, m.ctx
	working := *form
	return func() tea.Msg {
		saved, err := working.Submit(ctx, st)
		return savedMsg{form: &working, meeting: saved, err: err}
	}
}

// submitReschedule sends a precomputed reschedule payload, as a calendar drop does.
func (m Model) submitReschedule(id string, in models.RescheduleInput) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		saved, err := st.Reschedule(ctx, id, in)
		return savedMsg{meeting: saved, err: err}
	}
}

func (m Model) delete(id string) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: st.Delete(ctx, id)}
	}
}
