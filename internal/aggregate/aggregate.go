// Package aggregate collects accepted findings across workers and turns them
// into per-category counts, a score and the process exit bitmask.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"pyrite/internal/msg"
)

// ExitUsageError is the exit bit for pre-analysis usage/configuration errors.
// It always propagates, even under exit-zero.
const ExitUsageError = 32

// FileResult is one worker's outcome for one file.
type FileResult struct {
	Path       string
	Bag        *msg.Bag
	Statements int
}

// RunStats summarizes a finished run.
type RunStats struct {
	ByCategory map[msg.Category]int
	ByID       map[string]int
	Statements int
	Files      int
}

// Aggregator accumulates file results, possibly from several workers, and
// finalizes them in stable file-path-sorted order so output is reproducible
// regardless of scheduling.
type Aggregator struct {
	results    []FileResult
	usageError bool
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Add records one file's results. Safe to call from the merge goroutine only.
func (a *Aggregator) Add(res FileResult) {
	a.results = append(a.results, res)
}

// SetUsageError marks the run as having a configuration/usage error.
func (a *Aggregator) SetUsageError() {
	a.usageError = true
}

// FinalizeOptions controls scoring and exit-code composition.
type FinalizeOptions struct {
	// Formula is the score expression; empty selects DefaultFormula.
	Formula string
	// FailUnder fails the run when the score drops below it; zero value with
	// FailUnderSet false disables the threshold.
	FailUnder    float64
	FailUnderSet bool
	// FailOn lists ids, symbols or category names whose presence fails the
	// run regardless of score.
	FailOn []string
	// ExitZero forces exit code 0 unless a usage error occurred.
	ExitZero bool
	// Catalog resolves FailOn symbols; optional.
	Catalog *msg.Catalog
}

// Run is the finalized outcome.
type Run struct {
	Bag      *msg.Bag
	Stats    RunStats
	Score    float64
	ExitCode int
}

// Finalize merges all file results in path order, computes the score and
// composes the exit bitmask.
func (a *Aggregator) Finalize(opts FinalizeOptions) (*Run, error) {
	sort.SliceStable(a.results, func(i, j int) bool {
		return a.results[i].Path < a.results[j].Path
	})

	stats := RunStats{
		ByCategory: make(map[msg.Category]int),
		ByID:       make(map[string]int),
		Files:      len(a.results),
	}
	merged := msg.NewBag(64)
	for _, res := range a.results {
		merged.Merge(res.Bag)
		stats.Statements += res.Statements
	}
	merged.Sort()
	merged.Dedup()
	for _, f := range merged.Items() {
		stats.ByCategory[f.Category]++
		stats.ByID[f.MessageID]++
	}

	score, err := a.computeScore(&stats, opts)
	if err != nil {
		return nil, err
	}

	exit := a.composeExit(merged, &stats, score, opts)
	return &Run{Bag: merged, Stats: stats, Score: score, ExitCode: exit}, nil
}

// computeScore evaluates the formula; a run with fatal findings scores 0 and
// a run with nothing to analyze scores a clean 10.
func (a *Aggregator) computeScore(stats *RunStats, opts FinalizeOptions) (float64, error) {
	if stats.ByCategory[msg.CatFatal] > 0 {
		return 0, nil
	}
	if stats.Statements == 0 {
		return 10.0, nil
	}

	formula := opts.Formula
	if formula == "" {
		formula = DefaultFormula
	}
	vars := map[string]float64{
		"fatal":      float64(stats.ByCategory[msg.CatFatal]),
		"error":      float64(stats.ByCategory[msg.CatError]),
		"warning":    float64(stats.ByCategory[msg.CatWarning]),
		"refactor":   float64(stats.ByCategory[msg.CatRefactor]),
		"convention": float64(stats.ByCategory[msg.CatConvention]),
		"info":       float64(stats.ByCategory[msg.CatInfo]),
		"statement":  float64(stats.Statements),
	}
	score, err := EvalFormula(formula, vars)
	if err != nil {
		return 0, fmt.Errorf("evaluating score formula: %w", err)
	}
	return score, nil
}

func (a *Aggregator) composeExit(bag *msg.Bag, stats *RunStats, score float64, opts FinalizeOptions) int {
	bits := 0
	for cat, n := range stats.ByCategory {
		if n > 0 {
			bits |= cat.ExitBit()
		}
	}
	if a.usageError {
		bits |= ExitUsageError
	}

	if opts.ExitZero {
		return bits & ExitUsageError
	}

	if a.failOnMatches(bag, opts) {
		if bits&^ExitUsageError == 0 {
			bits |= msg.CatError.ExitBit()
		}
		return bits
	}

	if opts.FailUnderSet {
		if score >= opts.FailUnder {
			// Threshold passed and no fail-on hit: category bits are waived.
			return bits & ExitUsageError
		}
		if bits&^ExitUsageError == 0 {
			bits |= msg.CatError.ExitBit()
		}
	}
	return bits
}

// failOnMatches reports whether any finding matches the fail-on list.
func (a *Aggregator) failOnMatches(bag *msg.Bag, opts FinalizeOptions) bool {
	if len(opts.FailOn) == 0 {
		return false
	}
	for _, target := range opts.FailOn {
		folded := strings.ToLower(strings.TrimSpace(target))
		if cat, ok := msg.CategoryFromName(folded); ok {
			if bag.Has(cat) {
				return true
			}
			continue
		}
		id := folded
		if opts.Catalog != nil {
			if def, ok := opts.Catalog.Lookup(target); ok {
				id = strings.ToLower(def.ID)
			} else if def, ok := opts.Catalog.Lookup(folded); ok {
				id = strings.ToLower(def.ID)
			}
		}
		for _, f := range bag.Items() {
			if strings.ToLower(f.MessageID) == id || strings.EqualFold(f.Symbol, folded) {
				return true
			}
		}
	}
	return false
}
