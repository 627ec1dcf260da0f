package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pyrite/internal/aggregate"
	"pyrite/internal/checkers"
	"pyrite/internal/checks"
	"pyrite/internal/config"
	"pyrite/internal/msg"
	"pyrite/internal/observ"
	"pyrite/internal/reportfmt"
	"pyrite/internal/runner"
	"pyrite/internal/source"
	"pyrite/internal/statscache"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.py|directory>...",
	Short: "Analyze source files and rate the code",
	Long:  `Analyze the given files or directories, print every finding and rate the code on a 10-point scale. The exit code is a bitmask of the finding categories that occurred.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

// init registers CLI flags for the check command used by runCheck. Flags
// override the corresponding pyrite.toml settings when set.
func init() {
	checkCmd.Flags().String("config", "", "configuration file (default: nearest pyrite.toml)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Duration("file-timeout", 0, "per-file analysis time limit (0=none)")
	checkCmd.Flags().String("format", "", "output format (text|json|sarif)")
	checkCmd.Flags().StringSlice("disable", nil, "message ids, symbols or categories to disable")
	checkCmd.Flags().StringSlice("enable", nil, "message ids, symbols or categories to enable")
	checkCmd.Flags().String("confidence", "", "drop findings below this confidence (HIGH|CONTROL_FLOW|INFERENCE|INFERENCE_FAILURE|UNDEFINED)")
	checkCmd.Flags().Float64("fail-under", 10, "fail when the score falls below this value")
	checkCmd.Flags().StringSlice("fail-on", nil, "message ids, symbols or categories that always fail the run")
	checkCmd.Flags().Bool("exit-zero", false, "always exit 0 except for usage errors")
	checkCmd.Flags().Int("max-findings", 0, "truncate JSON output after this many findings (0=all)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().String("ui", "auto", "progress UI while analyzing (auto|on|off)")
}

// runCheck executes the "check" command: it resolves configuration, analyzes
// every requested file, renders the findings in the chosen format and exits
// with the category bitmask. Configuration and flag mistakes never produce
// findings; they print once and exit with the usage-error bit.
func runCheck(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	// The catalog carries every built-in message before configuration is
	// read; config validation resolves targets against it.
	catalog := msg.NewBuiltinCatalog()
	probe, err := checks.NewRegistry(catalog)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd, catalog)
	if err != nil {
		return usageExit(err)
	}

	// A bad checker option is a configuration mistake like any other, so it
	// is caught here against the probe registry before any file is read.
	if err := probe.Configure(cfg.CheckerOptions); err != nil {
		return usageExit(err)
	}
	newRegistry := func(catalog *msg.Catalog) (*checkers.Registry, error) {
		reg, regErr := checks.NewRegistry(catalog)
		if regErr != nil {
			return nil, regErr
		}
		if confErr := reg.Configure(cfg.CheckerOptions); confErr != nil {
			return nil, confErr
		}
		return reg, nil
	}

	exitZero, err := cmd.Flags().GetBool("exit-zero")
	if err != nil {
		return fmt.Errorf("failed to get exit-zero flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxFindings, err := cmd.Flags().GetInt("max-findings")
	if err != nil {
		return fmt.Errorf("failed to get max-findings flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return usageExit(err)
	}

	if !quiet {
		for _, note := range cfg.Notes {
			fmt.Fprintln(os.Stderr, "note:", note)
		}
	}

	collectPhase := timer.Begin("collect")
	files, err := collectSourceFiles(args)
	if err != nil {
		return usageExit(err)
	}
	timer.End(collectPhase, fmt.Sprintf("%d files", len(files)))

	baseDir := cfg.Root
	if baseDir == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			baseDir = wd
		}
	}
	fileSet := source.NewFileSetWithBase(baseDir)
	for _, path := range files {
		if _, err := fileSet.Load(path); err != nil {
			return usageExit(err)
		}
	}

	ropts := runner.Options{
		Jobs:          cfg.Jobs,
		FileTimeout:   cfg.FileTimeout,
		Target:        cfg.TargetVersion,
		MinConfidence: cfg.MinConfidence,
		Baseline:      cfg.Baseline,
	}
	agg := aggregate.New()

	useTUI := !quiet && cfg.Format == "text" && shouldUseTUI(mode)

	analyzePhase := timer.Begin("analyze")
	if useTUI {
		err = runCheckWithUI(cmd.Context(), "pyrite check", catalog, newRegistry, fileSet, ropts, agg)
	} else {
		err = runner.New(catalog, newRegistry, buildOutline, ropts).Run(cmd.Context(), fileSet, agg)
	}
	timer.End(analyzePhase, fmt.Sprintf("%d workers", cfg.Jobs))
	if err != nil {
		return err
	}

	run, err := agg.Finalize(aggregate.FinalizeOptions{
		Formula:      cfg.Formula,
		FailUnder:    cfg.FailUnder,
		FailUnderSet: cfg.FailUnderSet,
		FailOn:       cfg.FailOn,
		ExitZero:     exitZero,
		Catalog:      catalog,
	})
	if err != nil {
		return usageExit(err)
	}

	cache, cacheErr := statscache.Open("pyrite")
	var prev statscache.RunRecord
	hasPrev := false
	if cacheErr == nil {
		if ok, getErr := cache.Get(baseDir, &prev); getErr == nil && ok {
			hasPrev = true
		}
	}

	useColor := cfg.Color == "on" || (cfg.Color == "auto" && isTerminal(os.Stdout))
	if cmd.Root().PersistentFlags().Changed("color") {
		useColor = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	}
	pathMode := reportfmt.PathModeAuto
	if fullPath {
		pathMode = reportfmt.PathModeAbsolute
	}

	renderPhase := timer.Begin("render")
	switch cfg.Format {
	case "text":
		reportfmt.Text(os.Stdout, run, fileSet, reportfmt.TextOpts{
			Color:            useColor,
			PathMode:         pathMode,
			Context:          true,
			PreviousScore:    prev.Score,
			HasPreviousScore: hasPrev,
		})
	case "json":
		if err := reportfmt.JSON(os.Stdout, run, fileSet, reportfmt.JSONOpts{
			PathMode: pathMode,
			Max:      maxFindings,
		}); err != nil {
			return fmt.Errorf("failed to format findings: %w", err)
		}
	case "sarif":
		if err := reportfmt.Sarif(os.Stdout, run, fileSet, reportfmt.SarifRunMeta{
			ToolName:       "pyrite",
			ToolVersion:    "0.1.0",
			InvocationArgs: os.Args,
		}); err != nil {
			return fmt.Errorf("failed to format findings: %w", err)
		}
	default:
		return usageExit(fmt.Errorf("unknown format: %s", cfg.Format))
	}
	timer.End(renderPhase, cfg.Format)

	if cacheErr == nil {
		_ = cache.Put(&statscache.RunRecord{
			Root:       baseDir,
			When:       time.Now().Unix(),
			Score:      run.Score,
			Statements: run.Stats.Statements,
			Files:      run.Stats.Files,
			Fatal:      run.Stats.ByCategory[msg.CatFatal],
			Errors:     run.Stats.ByCategory[msg.CatError],
			Warnings:   run.Stats.ByCategory[msg.CatWarning],
			Refactors:  run.Stats.ByCategory[msg.CatRefactor],
			Convention: run.Stats.ByCategory[msg.CatConvention],
			Info:       run.Stats.ByCategory[msg.CatInfo],
		})
	}

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if run.ExitCode != 0 {
		os.Exit(run.ExitCode)
	}
	return nil
}

// resolveConfig loads pyrite.toml (explicit path, or the nearest one walking
// up from the working directory) and applies flag overrides on top.
func resolveConfig(cmd *cobra.Command, catalog *msg.Catalog) (*config.Config, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if cfgPath == "" {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		if found, ok, findErr := config.Find(wd); findErr == nil && ok {
			cfgPath = found
		} else if findErr != nil {
			return nil, findErr
		}
	}

	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath, catalog)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		jobs, _ := flags.GetInt("jobs")
		if jobs < 0 {
			return nil, fmt.Errorf("jobs must be >= 0, got %d", jobs)
		}
		cfg.Jobs = jobs
	}
	if flags.Changed("file-timeout") {
		cfg.FileTimeout, _ = flags.GetDuration("file-timeout")
	}
	if flags.Changed("format") {
		format, _ := flags.GetString("format")
		switch format {
		case "text", "json", "sarif":
			cfg.Format = format
		default:
			return nil, fmt.Errorf("unknown format: %s", format)
		}
	}
	if flags.Changed("confidence") {
		raw, _ := flags.GetString("confidence")
		conf, ok := msg.ParseConfidence(strings.ToUpper(strings.ReplaceAll(raw, "-", "_")))
		if !ok {
			return nil, fmt.Errorf("unknown confidence level %q", raw)
		}
		cfg.MinConfidence = conf
	}
	if flags.Changed("fail-under") {
		cfg.FailUnder, _ = flags.GetFloat64("fail-under")
		cfg.FailUnderSet = true
	}
	if flags.Changed("fail-on") {
		targets, _ := flags.GetStringSlice("fail-on")
		for _, target := range targets {
			cleaned, note, resolveErr := config.ResolveTarget(target, catalog)
			if resolveErr != nil {
				return nil, fmt.Errorf("--fail-on: %w", resolveErr)
			}
			if note != "" {
				cfg.Notes = append(cfg.Notes, note)
				continue
			}
			cfg.FailOn = append(cfg.FailOn, cleaned)
		}
	}

	// Flag-level disables apply after the file's message section, and
	// enables after disables, so the command line always wins.
	disables, _ := flags.GetStringSlice("disable")
	for _, target := range disables {
		if err := cfg.AddBaseline(target, false, catalog); err != nil {
			return nil, err
		}
	}
	enables, _ := flags.GetStringSlice("enable")
	for _, target := range enables {
		if err := cfg.AddBaseline(target, true, catalog); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// usageExit reports a configuration or flag mistake once and terminates with
// the usage-error bit. Such mistakes never contribute findings.
func usageExit(err error) error {
	fmt.Fprintf(os.Stderr, "pyrite: error: %v\n", err)
	os.Exit(aggregate.ExitUsageError)
	return nil
}
