package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"doclens/internal/driver"
	"doclens/internal/source"
	"doclens/internal/ui"
)

type scanOutcome struct {
	fileSet *source.FileSet
	results []driver.Result
	err     error
}

// runScanWithUI drives a directory scan behind the progress TUI. The scan
// runs in its own goroutine and feeds events into the model; the outcome is
// handed over once the channel closes. Файлы должны совпадать с теми,
// которые обойдёт ScanDir, иначе строки прогресса не найдутся по имени.
func runScanWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		fileSet, results, err := driver.ScanDir(ctx, dir, optsCopy)
		outcomeCh <- scanOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
