package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// Message types for async operations

// tidesFetchedMsg is sent when a day's tides have been decoded. focus, when
// set, is the tide to select once the day is shown.
type tidesFetchedMsg struct {
	port  models.Port
	date  time.Time
	tides []models.TideEvent
	focus *models.TideEvent
	err   error
}

// tideSteppedMsg is sent when the neighbouring tide has been resolved
type tideSteppedMsg struct {
	tide models.TideEvent
	err  error
}

// importStartedMsg carries the channels of a running table import
type importStartedMsg struct {
	progressChan chan string
	resultChan   chan importResultMsg
}

type importStatusMsg string

type importResultMsg struct {
	count int
	err   error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

const lookupTimeout = 10 * time.Second

// fetchDay decodes the tides of date's day in the background
func fetchDay(r Resolver, port models.Port, date time.Time, focus *models.TideEvent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		tides, err := r.GetTidesForDate(ctx, port, date)
		return tidesFetchedMsg{port: port, date: date, tides: tides, focus: focus, err: err}
	}
}

// stepTide resolves the tide after (or before) e in the background
func stepTide(r Resolver, e models.TideEvent, forward bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		var next models.TideEvent
		var err error
		if forward {
			next, err = r.Next(ctx, e)
		} else {
			next, err = r.Previous(ctx, e)
		}
		return tideSteppedMsg{tide: next, err: err}
	}
}

// startImport runs importer in the background and reports its progress
func startImport(importer Importer) tea.Cmd {
	return func() tea.Msg {
		progressChan := make(chan string, 16)
		resultChan := make(chan importResultMsg, 1)

		go func() {
			defer close(progressChan)
			count, err := importer(context.Background(), progressChan)
			resultChan <- importResultMsg{count: count, err: err}
		}()

		return importStartedMsg{progressChan: progressChan, resultChan: resultChan}
	}
}

func waitForImportStatus(progressChan <-chan string) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-progressChan
		if !ok {
			return nil
		}
		return importStatusMsg(status)
	}
}

func waitForImportResult(resultChan <-chan importResultMsg) tea.Cmd {
	return func() tea.Msg {
		return <-resultChan
	}
}

func importFailed(err error) error {
	return fmt.Errorf("importing tide tables: %w", err)
}
