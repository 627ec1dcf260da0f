package checks

import (
	"fmt"
	"strings"

	"pyrite/internal/checkers"
	"pyrite/internal/msg"
	"pyrite/internal/source"
)

// Fixme flags comments carrying work markers like TODO or FIXME.
type Fixme struct {
	notes []string
}

// NewFixme creates the checker with the standard marker set.
func NewFixme() *Fixme {
	return &Fixme{notes: []string{"TODO", "FIXME", "XXX"}}
}

func (c *Fixme) Name() string  { return "fixme" }
func (c *Fixme) Priority() int { return 10 }

func (c *Fixme) Messages() []msg.Definition {
	return []msg.Definition{{
		ID:                "W0511",
		Symbol:            "fixme",
		Template:          "work marker in comment: %s",
		DefaultConfidence: msg.ConfidenceHigh,
	}}
}

func (c *Fixme) Options() []checkers.Option {
	return []checkers.Option{{
		Name:    "notes",
		Help:    "Comma-separated comment markers to flag.",
		Default: "TODO,FIXME,XXX",
	}}
}

func (c *Fixme) SetOption(name, value string) error {
	if name != "notes" {
		return fmt.Errorf("unknown option %q", name)
	}
	var notes []string
	for _, n := range strings.Split(value, ",") {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, strings.ToUpper(n))
		}
	}
	if len(notes) == 0 {
		return fmt.Errorf("notes must name at least one marker")
	}
	c.notes = notes
	return nil
}

func (c *Fixme) CheckRaw(rep checkers.Reporter, file *source.File) {
	for line := 1; line <= file.LineCount(); line++ {
		text := file.Line(line)
		hash := strings.IndexByte(text, '#')
		if hash < 0 {
			continue
		}
		comment := strings.ToUpper(text[hash+1:])
		for _, note := range c.notes {
			if at := strings.Index(comment, note); at >= 0 {
				rep.ReportAt("W0511", source.At(line, hash+2+at), strings.TrimSpace(text[hash+1:]))
				break
			}
		}
	}
}
