package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/cef/internal/finder"
)

type page int

const (
	pageEvents page = iota
	pageBookmarks
	pageDetail
	pageAdd
)

type model struct {
	finder      *finder.Finder
	feedSource  string
	searchInput textinput.Model
	list        list.Model
	form        addForm
	page        page
	prevPage    page
	detail      finder.Entry
	width       int
	height      int
	ready       bool
	searching   bool
	confirming  bool
	status      string
	err         error
}

type eventItem struct {
	entry finder.Entry
}

func (i eventItem) Title() string {
	mark := "  "
	if i.entry.Bookmarked {
		mark = "★ "
	}
	return mark + i.entry.Event.Title
}

func (i eventItem) Description() string {
	desc := i.entry.Date
	if i.entry.Time != "" {
		desc += " • " + i.entry.Time
	}
	if i.entry.Category != "" {
		desc += "  [" + i.entry.Category + "]"
	}
	return desc
}

func (i eventItem) FilterValue() string {
	return i.entry.Event.Title + " " + i.entry.Event.Description + " " + i.entry.Category
}

func initialModel(f *finder.Finder, feedSource string) model {
	ti := textinput.New()
	ti.Placeholder = "Search events..."
	ti.CharLimit = 256
	ti.Width = 50

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "College Events"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return model{
		finder:      f,
		feedSource:  feedSource,
		searchInput: ti,
		list:        l,
		form:        newAddForm(),
		page:        pageEvents,
	}
}

type initMsg struct {
	err error
}

type reloadMsg struct {
	err error
}

func (m model) Init() tea.Cmd {
	return m.start
}

func (m model) start() tea.Msg {
	return initMsg{err: m.finder.Start(context.Background())}
}

func (m model) reload() tea.Msg {
	return reloadMsg{err: m.finder.Reload(context.Background())}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		m.searchInput.Width = msg.Width - 20
		return m, nil

	case initMsg:
		m.ready = true
		m.err = msg.err
		m.refresh()
		return m, nil

	case reloadMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Events reloaded."
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.page {
		case pageAdd:
			return m.updateForm(msg)
		case pageDetail:
			return m.updateDetail(msg)
		}
		if m.confirming {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	if m.searching {
		m.searchInput, cmd = m.searchInput.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Live search on input change
	m.refresh()
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.page = pageEvents
		m.searching = true
		m.refresh()
		cmd := m.searchInput.Focus()
		return m, cmd
	case "esc":
		if m.searchInput.Value() != "" {
			m.searchInput.Reset()
			m.refresh()
		}
		return m, nil
	case "tab":
		if m.page == pageEvents {
			m.page = pageBookmarks
		} else {
			m.page = pageEvents
		}
		m.list.Select(0)
		m.refresh()
		return m, nil
	case "j", "down":
		m.list.CursorDown()
		return m, nil
	case "k", "up":
		m.list.CursorUp()
		return m, nil
	case "g":
		m.list.Select(0)
		return m, nil
	case "G":
		if n := len(m.list.Items()); n > 0 {
			m.list.Select(n - 1)
		}
		return m, nil
	case "enter":
		if item, ok := m.list.SelectedItem().(eventItem); ok {
			m.prevPage = m.page
			m.page = pageDetail
			m.detail = item.entry
		}
		return m, nil
	case "b":
		if item, ok := m.list.SelectedItem().(eventItem); ok {
			m.toggle(item.entry.ID)
		}
		return m, nil
	case "a":
		m.prevPage = m.page
		m.page = pageAdd
		m.form = newAddForm()
		cmd := m.form.focusCurrent()
		return m, cmd
	case "C":
		if m.finder.BookmarkCount() > 0 {
			m.confirming = true
		}
		return m, nil
	case "r":
		m.status = "Reloading events..."
		return m, m.reload
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirming = false
	if msg.String() != "y" {
		m.status = "Kept bookmarks."
		return m, nil
	}
	if err := m.finder.ClearBookmarks(); err != nil {
		m.status = fmt.Sprintf("Could not save bookmarks: %v", err)
	} else {
		m.status = "All bookmarks cleared."
	}
	m.refresh()
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "enter":
		m.page = m.prevPage
		m.refresh()
	case "b":
		m.toggle(m.detail.ID)
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.page = m.prevPage
		m.status = "Add cancelled."
		m.refresh()
		return m, nil
	case "tab", "down":
		cmd := m.form.move(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.move(-1)
		return m, cmd
	case "enter":
		if !m.form.onLast() {
			cmd := m.form.move(1)
			return m, cmd
		}
		fallthrough
	case "ctrl+s":
		entry, err := m.finder.AddEvent(m.form.event())
		if err != nil {
			m.form.err = err
			return m, nil
		}
		m.page = pageEvents
		m.searchInput.Reset()
		m.refresh()
		m.selectID(entry.ID)
		m.status = fmt.Sprintf("Added %q.", entry.Event.Title)
		if entry.Bookmarked {
			m.status += " Already bookmarked."
		}
		return m, nil
	}

	cmd := m.form.update(msg)
	return m, cmd
}

// toggle flips a bookmark and re-renders every surface from the finder.
func (m *model) toggle(id string) {
	on, err := m.finder.ToggleBookmark(id)
	switch {
	case err != nil:
		m.status = fmt.Sprintf("Could not save bookmarks: %v", err)
	case on:
		m.status = "Bookmarked."
	default:
		m.status = "Bookmark removed."
	}
	m.refresh()
}

// refresh re-queries the finder for the current page.
func (m *model) refresh() {
	if m.page == pageDetail {
		if entry, ok := m.finder.Detail(m.detail.ID); ok {
			m.detail = entry
		}
		return
	}

	var entries []finder.Entry
	if m.page == pageBookmarks {
		entries = m.finder.Bookmarked()
	} else {
		entries = m.finder.Search(m.searchInput.Value())
	}

	idx := m.list.Index()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = eventItem{entry: e}
	}
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m *model) selectID(id string) {
	for i, it := range m.list.Items() {
		if item, ok := it.(eventItem); ok && item.entry.ID == id {
			m.list.Select(i)
			return
		}
	}
}

var (
	activeTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	inactiveTab = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	searchStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func (m model) View() string {
	var b strings.Builder

	switch m.page {
	case pageDetail:
		b.WriteString(m.detailView())
	case pageAdd:
		b.WriteString(m.form.view())
	default:
		b.WriteString(m.listView())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m model) listView() string {
	var b strings.Builder

	eventsTab := fmt.Sprintf("Events (%d)", len(m.finder.Events()))
	bookmarksTab := fmt.Sprintf("Bookmarks (%d)", len(m.finder.Bookmarked()))
	if m.page == pageBookmarks {
		eventsTab, bookmarksTab = inactiveTab.Render(eventsTab), activeTab.Render(bookmarksTab)
	} else {
		eventsTab, bookmarksTab = activeTab.Render(eventsTab), inactiveTab.Render(bookmarksTab)
	}
	tabs := eventsTab + "  " + bookmarksTab

	if m.page == pageEvents {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, searchStyle.Render(m.searchInput.View()), "  ", tabs))
	} else {
		b.WriteString(tabs)
	}
	b.WriteString("\n\n")

	switch {
	case !m.ready:
		b.WriteString(mutedStyle.Render("Loading events..."))
	case m.err != nil && m.page == pageEvents:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not load events from %s.", m.feedSource)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.err.Error()))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Press r to retry."))
	case m.confirming:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Clear all %d bookmarks? [y/N]", m.finder.BookmarkCount())))
	case len(m.list.Items()) == 0 && m.page == pageBookmarks:
		b.WriteString(mutedStyle.Render("No bookmarked events."))
	case len(m.list.Items()) == 0:
		b.WriteString(mutedStyle.Render("No events found."))
	default:
		b.WriteString(m.list.View())
	}

	if m.page == pageBookmarks {
		if n := len(m.finder.Orphans()); n > 0 {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%d bookmarked event(s) are no longer listed.", n)))
		}
	}
	return b.String()
}

func (m model) detailView() string {
	e := m.detail
	var b strings.Builder

	b.WriteString(titleStyle.Render(e.Event.Title))
	b.WriteString("\n")
	b.WriteString(e.Date)
	if e.Time != "" {
		b.WriteString(" • " + e.Time)
	}
	b.WriteString("\n")
	if e.Category != "" {
		b.WriteString(mutedStyle.Render(e.Category))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(e.Event.Description)
	b.WriteString("\n\n")
	if e.Bookmarked {
		b.WriteString(activeTab.Render("★ Bookmarked"))
	} else {
		b.WriteString(inactiveTab.Render("☆ Not bookmarked"))
	}
	return b.String()
}

func (m model) help() string {
	switch {
	case m.page == pageDetail:
		return "[b]ookmark [esc]back [q]uit"
	case m.page == pageAdd:
		return "[tab]next field [enter]next/save [ctrl+s]save [esc]cancel"
	case m.searching:
		return "[enter/esc]done"
	default:
		return "[j/k]nav [g/G]top/end [/]search [enter]details [b]ookmark [tab]events/bookmarks [a]dd [C]lear bookmarks [r]eload [q]uit"
	}
}

// Run starts the TUI and blocks until it exits.
func Run(f *finder.Finder, feedSource string) error {
	p := tea.NewProgram(initialModel(f, feedSource), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
