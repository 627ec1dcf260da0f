// Package checks contains the built-in rule implementations shipped with the
// engine: a handful of raw text rules, a tree rule and one cross-file rule.
package checks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"pyrite/internal/checkers"
	"pyrite/internal/msg"
	"pyrite/internal/source"
)

const defaultMaxLineLength = 100

// LineLength flags physical lines wider than the configured limit. Width is
// measured in display cells so East Asian text is budgeted fairly.
type LineLength struct {
	maxLen int
}

// NewLineLength creates the checker with the default limit.
func NewLineLength() *LineLength {
	return &LineLength{maxLen: defaultMaxLineLength}
}

func (c *LineLength) Name() string  { return "format" }
func (c *LineLength) Priority() int { return 0 }

func (c *LineLength) Messages() []msg.Definition {
	return []msg.Definition{{
		ID:                "C0301",
		Symbol:            "line-too-long",
		Template:          "line too long (%d/%d)",
		Description:       "The line exceeds the configured character limit.",
		DefaultConfidence: msg.ConfidenceHigh,
	}}
}

func (c *LineLength) Options() []checkers.Option {
	return []checkers.Option{{
		Name:    "max-line-length",
		Help:    "Maximum number of display columns in a line.",
		Default: strconv.Itoa(defaultMaxLineLength),
	}}
}

func (c *LineLength) SetOption(name, value string) error {
	if name != "max-line-length" {
		return fmt.Errorf("unknown option %q", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fmt.Errorf("max-line-length must be a positive integer, got %q", value)
	}
	c.maxLen = n
	return nil
}

func (c *LineLength) CheckRaw(rep checkers.Reporter, file *source.File) {
	for line := 1; line <= file.LineCount(); line++ {
		text := file.Line(line)
		width := runewidth.StringWidth(strings.TrimRight(text, "\n"))
		if width > c.maxLen {
			rep.ReportAt("C0301", source.Span(line, c.maxLen+1, line, width+1), width, c.maxLen)
		}
	}
}
