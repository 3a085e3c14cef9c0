// Package tui implements a terminal UI for a todo.txt file.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/filelock"
	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewConfirmDelete
)

// Layout constants.
const (
	listChrome  = 3 // header, blank line and status bar
	errorChrome = 1 // extra line when an error toast is displayed
	lineWidth   = 4 // width of the line number column
)

// errLineChanged is reported when the file changed under the selection.
var errLineChanged = errors.New("line changed on disk, reloaded")

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Completed key.Binding
	Quit      key.Binding
	Yes       key.Binding
	No        key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	Toggle:    key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "done")),
	Delete:    key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "del")),
	Completed: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show done")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Yes:       key.NewBinding(key.WithKeys("y", "Y")),
	No:        key.NewBinding(key.WithKeys("n", "N", "esc", "q")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Delete, k.Completed, k.Quit}
}

// Model is the top-level bubbletea model.
type Model struct {
	cfg    *config.Config
	logger *log.Logger
	help   help.Model

	items         []task.Item
	total         int
	cursor        int
	offset        int // first visible row
	showCompleted bool

	view   view
	width  int
	height int
	err    error
	today  func() date.Date

	// Delete confirmation.
	deleteLine int
	deleteText string
}

// New creates a Model for the todo file named by cfg.
func New(cfg *config.Config, logger *log.Logger) *Model {
	m := &Model{
		cfg:           cfg,
		logger:        logger,
		help:          help.New(),
		showCompleted: cfg.TUI.ShowCompleted,
		today:         date.Today,
	}
	m.load()
	return m
}

// SetToday overrides the clock used for completion dates (for testing).
func (m *Model) SetToday(fn func() date.Date) {
	m.today = fn
}

// WatchPaths returns the files whose changes should trigger a reload.
func (m *Model) WatchPaths() []string {
	return []string{m.cfg.TodoPath(), m.cfg.ConfigPath()}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil
	case ReloadMsg:
		m.load()
		return m, nil
	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.view == viewConfirmDelete {
		return m.viewDeleteConfirm()
	}
	return m.viewList()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a refresh.
type ReloadMsg struct{}

// ErrorMsg carries a background error, such as a watcher failure, into the
// status bar.
type ErrorMsg struct{ Err error }

// --- Keys ---

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewConfirmDelete {
		switch {
		case key.Matches(msg, keys.Yes):
			m.executeDelete()
		case key.Matches(msg, keys.No):
			m.view = viewList
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case key.Matches(msg, keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, keys.Delete):
		if it, ok := m.selected(); ok {
			m.deleteLine = it.Line
			m.deleteText = it.Task.Content()
			m.view = viewConfirmDelete
		}
	case key.Matches(msg, keys.Completed):
		m.showCompleted = !m.showCompleted
		m.load()
	}
	return m, nil
}

// --- Mutations ---

func (m *Model) toggleSelected() {
	it, ok := m.selected()
	if !ok {
		return
	}
	policy, err := task.ParsePriorityPolicy(m.cfg.Defaults.CompletePriority)
	if err != nil {
		m.err = err
		return
	}

	action := "do"
	if it.Task.Completed() {
		action = "undo"
	}
	m.mutate(it, action, func(f *task.File, t *task.Task) error {
		var next *task.Task
		var err error
		if t.Completed() {
			next, err = task.Reopen(t)
		} else {
			next, err = task.Complete(t, m.today(), policy)
		}
		if err != nil {
			return err
		}
		return f.Set(it.Line, next)
	})
}

func (m *Model) executeDelete() {
	m.view = viewList
	it := task.Item{Line: m.deleteLine, Task: task.MustParse(m.deleteText)}
	m.mutate(it, "delete", func(f *task.File, _ *task.Task) error {
		_, err := f.Remove(it.Line, m.cfg.PreserveLineNumbers)
		return err
	})
}

// mutate re-reads the todo file under its lock, checks that the line still
// holds the task on screen, applies fn and saves.
func (m *Model) mutate(it task.Item, action string, fn func(*task.File, *task.Task) error) {
	path := m.cfg.TodoPath()
	err := filelock.With(path, func() error {
		f, _, err := task.Open(path)
		if err != nil {
			return err
		}
		current, ok := f.Get(it.Line)
		if !ok || current.Content() != it.Task.Content() {
			return errLineChanged
		}
		if err := fn(f, current); err != nil {
			return err
		}
		return f.Save()
	})
	if err != nil {
		m.load()
		m.err = fmt.Errorf("%s line %d: %w", action, it.Line, err)
		return
	}
	query.LogMutation(m.cfg.ActivityPath(), action, it.Line, it.Task.Content())
	m.logger.Debug("saved", "action", action, "line", it.Line)
	m.load()
}

// load reads the todo file and rebuilds the visible rows.
func (m *Model) load() {
	f, warnings, err := task.Open(m.cfg.TodoPath())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	for _, w := range warnings {
		m.logger.Warn("skipping unparseable line", "line", w.Line, "err", w.Err)
	}

	all := f.Items()
	m.total = len(all)
	completed := false
	opts := query.ListOptions{SortBy: m.cfg.Sort}
	if !m.showCompleted {
		opts.Filter.Completed = &completed
	}
	m.items = query.List(all, opts)
	m.clampCursor()
}

// --- Selection ---

func (m *Model) selected() (task.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return task.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) visibleRows() int {
	rows := m.height - listChrome
	if m.err != nil {
		rows -= errorChrome
	}
	return max(rows, 1)
}

// ensureVisible adjusts the scroll offset so the cursor row is on screen.
func (m *Model) ensureVisible() {
	if m.height == 0 {
		return
	}
	rows := m.visibleRows()
	switch {
	case m.cursor >= m.offset+rows:
		m.offset = m.cursor - rows + 1
	case m.cursor < m.offset:
		m.offset = m.cursor
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Strikethrough(true)

	priorityStyles = map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"B": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"C": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}

	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// --- View rendering ---

func (m *Model) viewList() string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %d shown / %d tasks", m.cfg.TodoFile, len(m.items), m.total)
	b.WriteString(headerStyle.Render(truncate(header, m.width)))
	b.WriteByte('\n')

	rows := m.visibleRows()
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("  No tasks."))
		b.WriteByte('\n')
		rows--
	}
	end := min(m.offset+rows, len(m.items))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.items[i], i == m.cursor))
		b.WriteByte('\n')
	}
	for i := end - m.offset; i < rows; i++ {
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderRow(it task.Item, active bool) string {
	marker := "  "
	if active {
		marker = cursorStyle.Render("> ")
	}
	num := fmt.Sprintf("%*d ", lineWidth, it.Line)

	text := truncate(it.Task.Content(), m.width-lineWidth-3) //nolint:mnd // marker and spacing
	if it.Task.Completed() {
		return marker + dimStyle.Render(num) + doneStyle.Render(text)
	}
	return marker + dimStyle.Render(num) + styleWords(text, it.Task.Priority())
}

// styleWords colors the priority and +project / @context words of text.
func styleWords(text, priority string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		switch {
		case i == 0 && priority != "" && w == "("+priority+")":
			if s, ok := priorityStyles[priority]; ok {
				words[i] = s.Render(w)
			}
		case len(w) > 1 && w[0] == '+':
			words[i] = projectStyle.Render(w)
		case len(w) > 1 && w[0] == '@':
			words[i] = contextStyle.Render(w)
		}
	}
	return strings.Join(words, " ")
}

func (m *Model) renderStatusBar() string {
	status := statusBarStyle.Render(truncate(" "+m.help.ShortHelpView(keys.ShortHelp()), m.width))
	if m.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+m.err.Error(), m.width))
		return errStr + "\n" + status
	}
	return status
}

func (m *Model) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %d: %s", m.deleteLine, truncate(m.deleteText, m.width-10)) + "\n\n" + //nolint:mnd // dialog chrome
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
