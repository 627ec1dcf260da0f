package reportfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyrite/internal/aggregate"
	"pyrite/internal/msg"
	"pyrite/internal/source"
)

var (
	fatalColor      = color.New(color.FgRed, color.Bold)
	errorColor      = color.New(color.FgRed)
	warningColor    = color.New(color.FgYellow)
	refactorColor   = color.New(color.FgMagenta)
	conventionColor = color.New(color.FgCyan)
	infoColor       = color.New(color.FgGreen)
	moduleColor     = color.New(color.Bold)
	scoreColor      = color.New(color.FgGreen, color.Bold)
	lowScoreColor   = color.New(color.FgRed, color.Bold)
)

func categoryColor(cat msg.Category) *color.Color {
	switch cat {
	case msg.CatFatal:
		return fatalColor
	case msg.CatError:
		return errorColor
	case msg.CatWarning:
		return warningColor
	case msg.CatRefactor:
		return refactorColor
	case msg.CatConvention:
		return conventionColor
	}
	return infoColor
}

// Text renders the run the way a terminal user reads it: findings grouped
// under per-module headers, then the score line. The bag must already be
// sorted. fileSet may be nil; context lines are skipped for unknown files.
func Text(w io.Writer, run *aggregate.Run, fileSet *source.FileSet, opts TextOpts) {
	restore := color.NoColor
	color.NoColor = !opts.Color
	defer func() { color.NoColor = restore }()

	currentModule := ""
	for _, f := range run.Bag.Items() {
		if f.Module != currentModule {
			currentModule = f.Module
			name := currentModule
			if name == "" {
				name = "(run)"
			}
			fmt.Fprintf(w, "%s %s\n", moduleColor.Sprint("*************"), moduleColor.Sprint("Module "+name))
		}

		loc := fmt.Sprintf("%s:%d:%d:", displayPath(f.Path, fileSet, opts.PathMode), f.Pos.Line, f.Pos.Col)
		id := categoryColor(f.Category).Sprint(f.MessageID)
		where := ""
		if f.ObjectPath != "" {
			where = ", " + f.ObjectPath
		}
		fmt.Fprintf(w, "%s %s: %s (%s%s)\n", loc, id, f.Text, f.Symbol, where)

		if opts.Context && fileSet != nil {
			writeContext(w, f, fileSet)
		}
	}

	if run.Bag.Len() > 0 {
		fmt.Fprintln(w)
	}

	c := scoreColor
	if run.Score < 5 {
		c = lowScoreColor
	}
	line := fmt.Sprintf("Your code has been rated at %s/10", c.Sprintf("%.2f", run.Score))
	if opts.HasPreviousScore {
		delta := run.Score - opts.PreviousScore
		line += fmt.Sprintf(" (previous run: %.2f/10, %+.2f)", opts.PreviousScore, delta)
	}
	fmt.Fprintln(w, line)
}

// writeContext prints the offending source line with a caret underline.
// The underline is aligned by display width so wide runes do not skew it.
func writeContext(w io.Writer, f msg.Finding, fileSet *source.FileSet) {
	file, ok := fileSet.GetByPath(f.Path)
	if !ok {
		return
	}
	text := file.Line(f.Pos.Line)
	if text == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", text)

	col := f.Pos.Col
	if col < 1 || col > len(text)+1 {
		col = 1
	}
	pad := runewidth.StringWidth(text[:col-1])

	width := 1
	if f.Pos.EndLine == f.Pos.Line && f.Pos.EndCol > f.Pos.Col {
		end := f.Pos.EndCol - 1
		if end > len(text) {
			end = len(text)
		}
		if end > col-1 {
			width = runewidth.StringWidth(text[col-1 : end])
		}
	}
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), marker)
}

func displayPath(path string, fileSet *source.FileSet, mode PathMode) string {
	if fileSet == nil {
		return path
	}
	file, ok := fileSet.GetByPath(path)
	if !ok {
		return path
	}
	switch mode {
	case PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case PathModeRelative:
		return file.FormatPath("relative", fileSet.BaseDir())
	case PathModeBasename:
		return file.FormatPath("basename", "")
	default:
		return file.FormatPath("auto", "")
	}
}
