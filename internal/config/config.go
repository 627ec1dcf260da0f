// Package config loads and validates pyrite.toml. All load and validation
// failures are usage errors: the caller reports them once and exits with the
// usage bit set, without analyzing any file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"pyrite/internal/aggregate"
	"pyrite/internal/msg"
	"pyrite/internal/suppress"
)

// FileName is the manifest searched for upward from the working directory.
const FileName = "pyrite.toml"

// ErrBadConfig indicates an invalid or inconsistent configuration value.
var ErrBadConfig = errors.New("bad configuration")

// Config is the validated runtime configuration.
type Config struct {
	// Path and Root are set when the config came from a file.
	Path string
	Root string

	// Jobs is the worker count; 0 means one worker per CPU.
	Jobs int
	// FileTimeout bounds analysis of a single file; 0 disables the limit.
	FileTimeout time.Duration
	// TargetVersion filters messages by their version window; zero matches all.
	TargetVersion msg.LangVersion
	// MinConfidence drops findings below this certainty.
	MinConfidence msg.Confidence

	// Baseline holds the ordered enable/disable declarations.
	Baseline suppress.Baseline

	Formula      string
	FailUnder    float64
	FailUnderSet bool
	FailOn       []string

	Format string
	Color  string

	// CheckerOptions maps checker names to their option values, as written in
	// the [checkers] tables. Names and option keys are validated against the
	// registry when the run's registries are built, not here.
	CheckerOptions map[string]map[string]string

	// Notes are informational remarks surfaced once before the report,
	// e.g. references to removed message ids.
	Notes []string
}

// Default returns the configuration used when no pyrite.toml exists.
func Default() *Config {
	return &Config{
		Formula: aggregate.DefaultFormula,
		Format:  "text",
		Color:   "auto",
	}
}

type fileConfig struct {
	Run      runSection                `toml:"run"`
	Messages messagesSection           `toml:"messages"`
	Score    scoreSection              `toml:"score"`
	Output   outputSection             `toml:"output"`
	Checkers map[string]map[string]any `toml:"checkers"`
}

type runSection struct {
	Jobs          int    `toml:"jobs"`
	FileTimeout   string `toml:"file-timeout"`
	TargetVersion string `toml:"target-version"`
	Confidence    string `toml:"confidence"`
}

type messagesSection struct {
	Disable []string `toml:"disable"`
	Enable  []string `toml:"enable"`
}

type scoreSection struct {
	Formula   string   `toml:"formula"`
	FailUnder float64  `toml:"fail-under"`
	FailOn    []string `toml:"fail-on"`
}

type outputSection struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Find walks upward from startDir looking for pyrite.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and validates the config file at path. The catalog resolves
// message targets so that typos fail loudly instead of silently matching
// nothing.
func Load(path string, catalog *msg.Catalog) (*Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown key %q", ErrBadConfig, path, undecoded[0].String())
	}
	cfg, err := fromRaw(&raw, catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

func fromRaw(raw *fileConfig, catalog *msg.Catalog) (*Config, error) {
	cfg := Default()

	if raw.Run.Jobs < 0 {
		return nil, fmt.Errorf("%w: [run].jobs must not be negative, got %d", ErrBadConfig, raw.Run.Jobs)
	}
	cfg.Jobs = raw.Run.Jobs

	if s := strings.TrimSpace(raw.Run.FileTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("%w: [run].file-timeout: %v", ErrBadConfig, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("%w: [run].file-timeout must not be negative", ErrBadConfig)
		}
		cfg.FileTimeout = d
	}

	if s := strings.TrimSpace(raw.Run.TargetVersion); s != "" {
		v, err := msg.ParseLangVersion(s)
		if err != nil {
			return nil, fmt.Errorf("%w: [run].target-version: %v", ErrBadConfig, err)
		}
		cfg.TargetVersion = v
	}

	if s := strings.TrimSpace(raw.Run.Confidence); s != "" {
		conf, ok := msg.ParseConfidence(strings.ToUpper(s))
		if !ok {
			return nil, fmt.Errorf("%w: [run].confidence: unknown level %q", ErrBadConfig, s)
		}
		cfg.MinConfidence = conf
	}

	// Disable declarations apply before enable declarations, so an enable
	// entry always wins over a disable of the same or a wider target.
	for _, target := range raw.Messages.Disable {
		if err := cfg.AddBaseline(target, false, catalog); err != nil {
			return nil, err
		}
	}
	for _, target := range raw.Messages.Enable {
		if err := cfg.AddBaseline(target, true, catalog); err != nil {
			return nil, err
		}
	}

	if s := strings.TrimSpace(raw.Score.Formula); s != "" {
		if _, err := aggregate.EvalFormula(s, sampleFormulaVars()); err != nil {
			return nil, fmt.Errorf("%w: [score].formula: %v", ErrBadConfig, err)
		}
		cfg.Formula = s
	}

	if raw.Score.FailUnder != 0 {
		cfg.FailUnder = raw.Score.FailUnder
		cfg.FailUnderSet = true
	}

	for _, target := range raw.Score.FailOn {
		cleaned, note, err := ResolveTarget(target, catalog)
		if err != nil {
			return nil, fmt.Errorf("%w: [score].fail-on: %v", ErrBadConfig, err)
		}
		if note != "" {
			cfg.Notes = append(cfg.Notes, note)
			continue
		}
		cfg.FailOn = append(cfg.FailOn, cleaned)
	}

	if s := strings.TrimSpace(raw.Output.Format); s != "" {
		switch s {
		case "text", "json", "sarif":
			cfg.Format = s
		default:
			return nil, fmt.Errorf("%w: [output].format must be text, json or sarif, got %q", ErrBadConfig, s)
		}
	}
	if s := strings.TrimSpace(raw.Output.Color); s != "" {
		switch s {
		case "auto", "on", "off":
			cfg.Color = s
		default:
			return nil, fmt.Errorf("%w: [output].color must be auto, on or off, got %q", ErrBadConfig, s)
		}
	}

	if len(raw.Checkers) > 0 {
		cfg.CheckerOptions = make(map[string]map[string]string, len(raw.Checkers))
		for checker, opts := range raw.Checkers {
			converted := make(map[string]string, len(opts))
			for key, value := range opts {
				s, err := optionValue(value)
				if err != nil {
					return nil, fmt.Errorf("%w: [checkers.%s].%s: %v", ErrBadConfig, checker, key, err)
				}
				converted[key] = s
			}
			cfg.CheckerOptions[checker] = converted
		}
	}

	return cfg, nil
}

// optionValue renders a scalar TOML value as the string form checker options
// are set from.
func optionValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// AddBaseline appends one enable or disable declaration after validating the
// target against the catalog. Removed message targets add a note instead.
func (c *Config) AddBaseline(target string, enable bool, catalog *msg.Catalog) error {
	section := "disable"
	if enable {
		section = "enable"
	}
	cleaned, note, err := ResolveTarget(target, catalog)
	if err != nil {
		return fmt.Errorf("%w: [messages].%s: %v", ErrBadConfig, section, err)
	}
	if note != "" {
		c.Notes = append(c.Notes, note)
		return nil
	}
	c.Baseline.Append(cleaned, enable)
	return nil
}

// ResolveTarget validates one message target. A removed message is not an
// error: it returns a note so callers can inform the user and drop the entry.
func ResolveTarget(target string, catalog *msg.Catalog) (cleaned, note string, err error) {
	cleaned = strings.ToLower(strings.TrimSpace(target))
	if cleaned == "" {
		return "", "", errors.New("empty message target")
	}
	if cleaned == "all" {
		return cleaned, "", nil
	}
	if _, ok := msg.CategoryFromName(cleaned); ok {
		return cleaned, "", nil
	}
	if catalog == nil {
		return cleaned, "", nil
	}
	// The cleaned form is lower-cased, so an id-shaped target needs its
	// category letter restored before the catalog lookup.
	if _, ok := catalog.Lookup(suppress.CanonicalID(cleaned)); ok {
		return cleaned, "", nil
	}
	if reason, ok := catalog.WasRemoved(suppress.CanonicalID(cleaned)); ok {
		return "", fmt.Sprintf("message %q was removed: %s", target, reason), nil
	}
	return "", "", fmt.Errorf("unknown message %q", target)
}

func sampleFormulaVars() map[string]float64 {
	return map[string]float64{
		"fatal":      0,
		"error":      0,
		"warning":    0,
		"refactor":   0,
		"convention": 0,
		"info":       0,
		"statement":  1,
	}
}
