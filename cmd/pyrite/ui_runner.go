package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyrite/internal/aggregate"
	"pyrite/internal/msg"
	"pyrite/internal/runner"
	"pyrite/internal/source"
	"pyrite/internal/ui"
)

type checkOutcome struct {
	err error
}

// runCheckWithUI runs the analysis behind a progress TUI. The worker
// goroutine feeds per-file events to the model and closes the channel when
// the run finishes, which stops the program.
func runCheckWithUI(ctx context.Context, title string, catalog *msg.Catalog, factory runner.RegistryFactory, fileSet *source.FileSet, opts runner.Options, agg *aggregate.Aggregator) error {
	events := make(chan runner.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		r := runner.New(catalog, factory, buildOutline, optsCopy)
		err := r.Run(ctx, fileSet, agg)
		outcomeCh <- checkOutcome{err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, fileSet.Len(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return uiErr
	}
	return outcome.err
}
