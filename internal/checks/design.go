package checks

import (
	"fmt"
	"strconv"

	"pyrite/internal/checkers"
	"pyrite/internal/msg"
	"pyrite/internal/pytree"
)

const defaultMaxArgs = 5

// Design walks function definitions and flags signatures that take too many
// parameters.
type Design struct {
	maxArgs int
}

// NewDesign creates the checker with the default argument limit.
func NewDesign() *Design {
	return &Design{maxArgs: defaultMaxArgs}
}

func (c *Design) Name() string  { return "design" }
func (c *Design) Priority() int { return 20 }

func (c *Design) Messages() []msg.Definition {
	return []msg.Definition{{
		ID:                "R0913",
		Symbol:            "too-many-arguments",
		Template:          "too many arguments (%d/%d)",
		DefaultConfidence: msg.ConfidenceHigh,
	}}
}

func (c *Design) Options() []checkers.Option {
	return []checkers.Option{{
		Name:    "max-args",
		Help:    "Maximum number of parameters in a function signature.",
		Default: strconv.Itoa(defaultMaxArgs),
	}}
}

func (c *Design) SetOption(name, value string) error {
	if name != "max-args" {
		return fmt.Errorf("unknown option %q", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fmt.Errorf("max-args must be a positive integer, got %q", value)
	}
	c.maxArgs = n
	return nil
}

func (c *Design) Hooks() map[pytree.Kind]checkers.Hooks {
	return map[pytree.Kind]checkers.Hooks{
		pytree.KindFunctionDef: {Enter: c.enterFunction},
	}
}

func (c *Design) enterFunction(rep checkers.Reporter, n *pytree.Node) {
	args := 0
	for _, child := range n.Children {
		if child.Kind != pytree.KindArguments {
			continue
		}
		for _, a := range child.Children {
			if a.Kind == pytree.KindArg {
				args++
			}
		}
	}
	if args > c.maxArgs {
		rep.Report("R0913", n, args, c.maxArgs)
	}
}
