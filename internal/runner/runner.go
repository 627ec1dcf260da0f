// Package runner orchestrates a whole analysis run: the per-file worker
// pool, suppression wiring, fault conversion and the final cross-file
// reduce for stateful checkers.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"pyrite/internal/aggregate"
	"pyrite/internal/checkers"
	"pyrite/internal/msg"
	"pyrite/internal/pragma"
	"pyrite/internal/pytree"
	"pyrite/internal/sink"
	"pyrite/internal/source"
	"pyrite/internal/suppress"
	"pyrite/internal/walker"
)

// TreeBuilder produces the parse tree for one file. A nil root with a nil
// error means the file has no tree and only raw checkers run.
type TreeBuilder func(file *source.File) (*pytree.Node, error)

// RegistryFactory builds a fresh registry bound to the catalog. Each file is
// analyzed with its own registry instance so stateful checkers never share
// memory across goroutines; their per-file state meets in the reduce step.
type RegistryFactory func(catalog *msg.Catalog) (*checkers.Registry, error)

// Event reports per-file progress to an optional listener.
type Event struct {
	Path  string
	Done  int
	Total int
	// Findings is the accepted finding count for this file.
	Findings int
}

// Options configures a run.
type Options struct {
	// Jobs is the worker limit; 0 means one per CPU.
	Jobs int
	// FileTimeout bounds one file's analysis; 0 disables the limit.
	FileTimeout   time.Duration
	Target        msg.LangVersion
	MinConfidence msg.Confidence
	Baseline      suppress.Baseline
	// Events receives progress; the runner never blocks on a full channel.
	Events chan<- Event
}

// Runner analyzes a set of files.
type Runner struct {
	catalog   *msg.Catalog
	newReg    RegistryFactory
	buildTree TreeBuilder
	opts      Options
}

// New creates a runner. The catalog must already carry every checker's
// messages; the factory registers into throwaway per-file catalogs.
func New(catalog *msg.Catalog, factory RegistryFactory, build TreeBuilder, opts Options) *Runner {
	return &Runner{catalog: catalog, newReg: factory, buildTree: build, opts: opts}
}

type fileOutcome struct {
	res      aggregate.FileResult
	stateful []checkers.Stateful
}

// Run analyzes every file in the set and feeds results into the aggregator.
// Worker scheduling never affects output: outcomes merge in path order and
// stateful checkers reduce in path order.
func (r *Runner) Run(ctx context.Context, fileSet *source.FileSet, agg *aggregate.Aggregator) error {
	total := fileSet.Len()
	outcomes := make([]fileOutcome, total)

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(total, 1)))

	var done atomic.Int64
	for i := 0; i < total; i++ {
		file := fileSet.Get(source.FileID(i))
		g.Go(func(i int, file *source.File) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				out, err := r.analyzeWithTimeout(gctx, file)
				if err != nil {
					return err
				}
				outcomes[i] = out

				if r.opts.Events != nil {
					select {
					case r.opts.Events <- Event{
						Path: file.Path, Done: int(done.Add(1)), Total: total,
						Findings: out.res.Bag.Len(),
					}:
					default:
					}
				}
				return nil
			}
		}(i, file))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].res.Path < outcomes[j].res.Path
	})
	for _, out := range outcomes {
		agg.Add(out.res)
	}
	return r.reduceStateful(outcomes, agg)
}

// analyzeWithTimeout runs analyzeFile, replacing everything the file produced
// with a single fatal finding when the budget runs out. The abandoned
// goroutine finishes on its own and its results are discarded.
func (r *Runner) analyzeWithTimeout(ctx context.Context, file *source.File) (fileOutcome, error) {
	if r.opts.FileTimeout <= 0 {
		return r.analyzeFile(file)
	}

	type reply struct {
		out fileOutcome
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		out, err := r.analyzeFile(file)
		ch <- reply{out: out, err: err}
	}()

	timer := time.NewTimer(r.opts.FileTimeout)
	defer timer.Stop()
	select {
	case rep := <-ch:
		return rep.out, rep.err
	case <-ctx.Done():
		return fileOutcome{}, ctx.Err()
	case <-timer.C:
		bag := msg.NewBag(1)
		def, _ := r.catalog.Lookup(msg.IDAnalysisFailed)
		bag.Add(msg.Finding{
			MessageID:  def.ID,
			Symbol:     def.Symbol,
			Category:   def.Category(),
			Confidence: def.DefaultConfidence,
			Text:       fmt.Sprintf(def.Template, "timed out after "+r.opts.FileTimeout.String()),
			Path:       file.Path,
			Pos:        source.At(1, 1),
			Module:     moduleName(file.Path),
		})
		return fileOutcome{res: aggregate.FileResult{Path: file.Path, Bag: bag}}, nil
	}
}

func (r *Runner) analyzeFile(file *source.File) (fileOutcome, error) {
	module := moduleName(file.Path)
	bag := msg.NewBag(32)
	out := fileOutcome{res: aggregate.FileResult{Path: file.Path, Bag: bag}}

	// Each file gets its own catalog copy behind the registry so checker
	// registration stays race-free; reports resolve against it identically.
	fileCatalog := msg.NewBuiltinCatalog()
	reg, err := r.newReg(fileCatalog)
	if err != nil {
		return out, fmt.Errorf("building registry for %s: %w", file.Path, err)
	}
	reg.Finalize()

	tree, buildErr := r.buildTree(file)
	if buildErr != nil {
		snk := sink.New(sink.Options{
			Catalog: fileCatalog, Target: r.opts.Target,
			Path: file.Path, Module: module, Bag: bag,
		})
		snk.ReportAt(msg.IDAnalysisFailed, source.At(1, 1), buildErr.Error())
		return out, nil
	}

	scanned := pragma.Scan(file)

	var scopes *suppress.Scope
	var stmts *pytree.StatementIndex
	if tree != nil {
		scopes = suppress.BuildScopes(tree, file.LineCount())
		stmts = pytree.NewStatementIndex(tree)
		out.res.Statements = tree.CountStatements()
	} else {
		scopes = suppress.BuildScopes(pytree.New(pytree.KindModule,
			source.Span(1, 1, file.LineCount(), 1)), file.LineCount())
	}

	state, targetProblems := suppress.Build(suppress.BuildInput{
		Directives: scanned.Directives,
		Scopes:     scopes,
		Statements: stmts,
		Catalog:    fileCatalog,
		Baseline:   r.opts.Baseline,
		Target:     r.opts.Target,
	})

	snk := sink.New(sink.Options{
		Catalog:       fileCatalog,
		State:         state,
		Target:        r.opts.Target,
		MinConfidence: r.opts.MinConfidence,
		Path:          file.Path,
		Module:        module,
		Bag:           bag,
	})

	for _, p := range scanned.Problems {
		switch p.Kind {
		case pragma.ProblemDeprecated:
			snk.ReportAt(msg.IDDeprecatedPragma, source.At(p.Line, p.Col), p.Text, p.Hint)
		default:
			snk.ReportAt(msg.IDUnrecognizedOption, source.At(p.Line, p.Col), p.Text)
		}
	}
	for _, p := range targetProblems {
		where := "inline pragma"
		if p.Removed {
			where = fmt.Sprintf("inline pragma (removed: %s)", p.RemovedNote)
		}
		snk.ReportAt(msg.IDUnknownOptionValue, source.At(p.Line, p.Col), p.Target, where)
	}

	reg.OpenFile(file.Path, module)

	w := walker.New(reg)
	faults := w.RawPass(file, snk)
	if tree != nil {
		faults = append(faults, w.Walk(tree, snk)...)
	}
	snk.SetChecker("")
	for _, f := range faults {
		snk.ReportAt(msg.IDCheckerFault, f.Pos, f.Checker, f.Err)
	}

	for _, u := range state.SweepUnconsulted() {
		snk.ReportAt(msg.IDUselessSuppression, source.At(u.Line, u.Col), u.Target)
	}

	out.stateful = reg.Stateful()
	return out, nil
}

// reduceStateful folds every file's stateful checker instances together in
// path order and lets the merged instance report run-level findings.
func (r *Runner) reduceStateful(outcomes []fileOutcome, agg *aggregate.Aggregator) error {
	var merged []checkers.Stateful
	for _, out := range outcomes {
		if len(out.stateful) == 0 {
			continue
		}
		if merged == nil {
			merged = out.stateful
			continue
		}
		if len(out.stateful) != len(merged) {
			return fmt.Errorf("stateful checker sets diverged: %d vs %d", len(merged), len(out.stateful))
		}
		for i, s := range out.stateful {
			if err := merged[i].Reduce(s); err != nil {
				return fmt.Errorf("reducing checker %s: %w", merged[i].Name(), err)
			}
		}
	}
	if merged == nil {
		return nil
	}

	bag := msg.NewBag(8)
	snk := sink.New(sink.Options{
		Catalog:       r.catalog,
		Target:        r.opts.Target,
		MinConfidence: r.opts.MinConfidence,
		Bag:           bag,
	})
	for _, s := range merged {
		snk.SetChecker(s.Name())
		s.Finish(snk)
	}
	if bag.Len() > 0 {
		agg.Add(aggregate.FileResult{Bag: bag})
	}
	return nil
}

// moduleName maps a file path to its dotted module name.
func moduleName(path string) string {
	p := strings.TrimSuffix(filepath.ToSlash(path), ".py")
	p = strings.TrimSuffix(p, "/__init__")
	p = strings.TrimPrefix(p, "./")
	return strings.ReplaceAll(p, "/", ".")
}
