package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/nz-tides/internal/models"
	"github.com/ngmaloney/nz-tides/internal/tables"
	"github.com/ngmaloney/nz-tides/internal/tides"
)

const aucklandTable = "1,Su,1,2012,05:48,1.2,12:10,0.3,18:02,1.3,,\n" +
	"2,Mo,1,2012,00:25,0.3,06:38,3.2,12:50,0.4,19:03,3.1\n"

var jan1 = time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)

func testResolver() *tides.Resolver {
	return tides.NewResolver(tables.NewFSSource(fstest.MapFS{
		"auckland/2012.csv": {Data: []byte(aucklandTable)},
	}), nil)
}

func newTestModel() Model {
	m := NewModel(testResolver(), Options{
		Date: jan1,
		Now:  func() time.Time { return jan1.Add(9 * time.Hour) },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// showDay puts m in the display state for Auckland on date.
func showDay(t *testing.T, m Model, date time.Time) Model {
	t.Helper()
	msg := fetchDay(m.resolver, models.Auckland, date, nil)()
	m, _ = update(t, m, msg)
	if m.state != StateDisplay {
		t.Fatalf("state = %v, want StateDisplay (err %v)", m.state, m.err)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(testResolver(), Options{})
	if m.state != StatePortList {
		t.Errorf("NewModel() state = %v, want StatePortList", m.state)
	}

	m = NewModel(testResolver(), Options{Importer: func(context.Context, chan<- string) (int, error) { return 0, nil }})
	if m.state != StateImporting {
		t.Errorf("NewModel() with importer state = %v, want StateImporting", m.state)
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel()

	if m.width != 120 {
		t.Errorf("After WindowSizeMsg, width = %d, want 120", m.width)
	}
	if m.height != 40 {
		t.Errorf("After WindowSizeMsg, height = %d, want 40", m.height)
	}
}

func TestModel_Update_ErrorMsg(t *testing.T) {
	m, _ := update(t, newTestModel(), errMsg{err: tea.ErrProgramKilled})

	if m.state != StateError {
		t.Errorf("After errMsg, state = %v, want StateError", m.state)
	}
	if m.err == nil {
		t.Error("After errMsg, err should not be nil")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.state != StatePortList || m.err != nil {
		t.Errorf("any key should return to the port list, state = %v err = %v", m.state, m.err)
	}
}

func TestModel_CtrlC_Quits(t *testing.T) {
	_, cmd := newTestModel().Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if cmd == nil {
		t.Fatal("Expected Ctrl+C to return quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Ctrl+C command is not tea.Quit")
	}
}

func TestModel_SelectPort(t *testing.T) {
	m, cmd := update(t, newTestModel(), tea.KeyMsg{Type: tea.KeyEnter})

	if m.state != StateLoading {
		t.Errorf("state = %v, want StateLoading", m.state)
	}
	if m.port != models.Auckland {
		t.Errorf("port = %v, want Auckland", m.port)
	}
	if cmd == nil {
		t.Error("selecting a port should fetch its tides")
	}
	if !strings.Contains(m.View(), "Loading tides for Auckland") {
		t.Errorf("loading view = %q", m.View())
	}
}

func TestModel_BrowseDay(t *testing.T) {
	m := showDay(t, newTestModel(), jan1)

	if len(m.tides) != 3 || m.selected != 0 {
		t.Fatalf("tides = %v, selected = %d", m.tides, m.selected)
	}

	view := m.View()
	for _, want := range []string{"Auckland", "05:48", "12:10", "18:02", "High", "Low", "1.2 m"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if m.selected != 1 || cmd != nil {
		t.Errorf("n within the day: selected = %d, cmd = %v", m.selected, cmd)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if m.selected != 0 {
		t.Errorf("p within the day: selected = %d", m.selected)
	}
}

func TestModel_StepAcrossDays(t *testing.T) {
	m := showDay(t, newTestModel(), jan1)
	m.selected = len(m.tides) - 1

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if cmd == nil {
		t.Fatal("n on the last tide should resolve the next one")
	}
	stepped, ok := cmd().(tideSteppedMsg)
	if !ok || stepped.err != nil {
		t.Fatalf("step message = %#v", stepped)
	}

	m, cmd = update(t, m, stepped)
	if m.state != StateLoading || cmd == nil {
		t.Fatalf("stepping into the next day should load it, state = %v", m.state)
	}

	m, _ = update(t, m, cmd())
	if m.state != StateDisplay {
		t.Fatalf("state = %v, want StateDisplay (err %v)", m.state, m.err)
	}
	if m.date.Day() != 2 || m.selected != 0 {
		t.Errorf("date = %v, selected = %d, want Jan 2 first tide", m.date, m.selected)
	}
	if sel, _ := m.selectedTide(); sel.Time.Format("15:04") != "00:25" || !sel.IsLowTide() {
		t.Errorf("selected tide = %s", sel)
	}
}

func TestModel_StepPastData(t *testing.T) {
	m := showDay(t, newTestModel(), jan1)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if cmd == nil {
		t.Fatal("p on the first tide should resolve the previous one")
	}
	m, _ = update(t, m, cmd())

	if m.state != StateDisplay {
		t.Errorf("state = %v, want to stay on StateDisplay", m.state)
	}
	if !errors.Is(m.err, tides.ErrPortDataNotFound) {
		t.Errorf("err = %v, want ErrPortDataNotFound", m.err)
	}
	if !strings.Contains(m.View(), "2011") {
		t.Error("view should report the missing year")
	}
}

func TestModel_DayKeys(t *testing.T) {
	m := showDay(t, newTestModel(), jan1)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	if m.state != StateLoading || cmd == nil {
		t.Fatalf("] should load the next day")
	}
	m, _ = update(t, m, cmd())
	if m.date.Day() != 2 || len(m.tides) != 4 {
		t.Errorf("after ]: date = %v, tides = %d", m.date, len(m.tides))
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StatePortList {
		t.Errorf("esc: state = %v, want StatePortList", m.state)
	}
}

func TestModel_Import(t *testing.T) {
	importer := func(ctx context.Context, progress chan<- string) (int, error) {
		progress <- "Found 1 tide tables"
		return 1, nil
	}
	m := NewModel(testResolver(), Options{Importer: importer})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	started, ok := startImport(importer)().(importStartedMsg)
	if !ok {
		t.Fatal("startImport did not report its channels")
	}
	m, _ = update(t, m, started)

	m, _ = update(t, m, waitForImportStatus(started.progressChan)())
	if m.importStatus != "Found 1 tide tables" {
		t.Errorf("importStatus = %q", m.importStatus)
	}
	if !strings.Contains(m.View(), "Found 1 tide tables") {
		t.Errorf("import view = %q", m.View())
	}

	m, _ = update(t, m, waitForImportResult(started.resultChan)())
	if m.state != StatePortList {
		t.Errorf("state = %v, want StatePortList", m.state)
	}
}

func TestModel_ImportFailure(t *testing.T) {
	m := NewModel(testResolver(), Options{})
	m, _ = update(t, m, importResultMsg{err: errors.New("disk full")})

	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.err.Error(), "disk full") {
		t.Errorf("err = %v", m.err)
	}
}
