package tui

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/logging"
)

func newModel(t *testing.T, todo string, edit func(*config.Config)) (*Model, *config.Config) {
	t.Helper()
	cfg, err := config.Init(t.TempDir())
	if err != nil {
		t.Fatalf("config.Init() error: %v", err)
	}
	if edit != nil {
		edit(cfg)
	}
	if err := os.WriteFile(cfg.TodoPath(), []byte(todo), 0o600); err != nil {
		t.Fatal(err)
	}
	m := New(cfg, logging.Discard())
	m.SetToday(func() date.Date { return date.MustParse("2020-09-10") })
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return m, cfg
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func readTodo(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.TodoPath())
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestToggleCompletes(t *testing.T) {
	m, cfg := newModel(t, "call mom\n(A) 2020-09-01 pay rent\n", nil)

	press(m, "j", "x")

	want := "call mom\nx (A) 2020-09-10 2020-09-01 pay rent\n"
	if got := readTodo(t, cfg); got != want {
		t.Errorf("todo file = %q, want %q", got, want)
	}
	if m.err != nil {
		t.Errorf("err = %v", m.err)
	}
	if len(m.items) != 1 {
		t.Errorf("completed task still listed: %+v", m.items)
	}
}

func TestToggleReopens(t *testing.T) {
	m, cfg := newModel(t, "x 2020-09-03 2020-09-01 pay rent pri:B\n", func(c *config.Config) {
		c.TUI.ShowCompleted = true
	})

	press(m, "x")

	if got, want := readTodo(t, cfg), "(B) 2020-09-01 pay rent\n"; got != want {
		t.Errorf("todo file = %q, want %q", got, want)
	}
}

func TestDeleteConfirm(t *testing.T) {
	m, cfg := newModel(t, "a\nb\nc\n", func(c *config.Config) {
		c.PreserveLineNumbers = true
	})

	press(m, "j", "d")
	if m.view != viewConfirmDelete || m.deleteLine != 2 {
		t.Fatalf("view = %v, deleteLine = %d", m.view, m.deleteLine)
	}
	if !strings.Contains(m.View(), "Delete task?") {
		t.Errorf("confirm view = %q", m.View())
	}

	press(m, "n")
	if m.view != viewList || readTodo(t, cfg) != "a\nb\nc\n" {
		t.Fatalf("cancel changed state: view=%v file=%q", m.view, readTodo(t, cfg))
	}

	press(m, "d", "y")
	if got, want := readTodo(t, cfg), "a\n\nc\n"; got != want {
		t.Errorf("todo file = %q, want %q", got, want)
	}
	if len(m.items) != 2 {
		t.Errorf("items = %+v", m.items)
	}
}

func TestStaleLineRejected(t *testing.T) {
	m, cfg := newModel(t, "a\nb\n", nil)

	if err := os.WriteFile(cfg.TodoPath(), []byte("z\nb\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	press(m, "x")

	if m.err == nil || !strings.Contains(m.err.Error(), errLineChanged.Error()) {
		t.Errorf("err = %v, want %v", m.err, errLineChanged)
	}
	if got := readTodo(t, cfg); got != "z\nb\n" {
		t.Errorf("file rewritten: %q", got)
	}
	if m.items[0].Task.Content() != "z" {
		t.Errorf("model not reloaded: %+v", m.items)
	}
}

func TestNavigationAndView(t *testing.T) {
	m, _ := newModel(t, "(A) call mom +family @phone\nbuy milk\nx done\n", nil)

	press(m, "j", "j", "j")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	press(m, "k", "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	out := m.View()
	for _, want := range []string{"2 shown / 3 tasks", "call mom", "buy milk", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "x done") {
		t.Errorf("completed task shown:\n%s", out)
	}

	press(m, "c")
	if !strings.Contains(m.View(), "x done") {
		t.Errorf("completed task hidden after toggle:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, "", nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q did not quit")
	}
}

func TestReloadMsg(t *testing.T) {
	m, cfg := newModel(t, "a\n", nil)
	if err := os.WriteFile(cfg.TodoPath(), []byte("a\nb\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m.Update(ReloadMsg{})
	if len(m.items) != 2 {
		t.Errorf("items after reload = %d, want 2", len(m.items))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 8); got != "hello..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("hi", 8); got != "hi" {
		t.Errorf("truncate() = %q", got)
	}
}
