package msg

import (
	"errors"
	"fmt"
)

// Alias is a historical (id, symbol) pair a message was previously known by.
type Alias struct {
	ID     string
	Symbol string
}

// Definition is the immutable metadata describing one kind of finding.
type Definition struct {
	// ID is the category-prefixed code, e.g. "C0301".
	ID string
	// Symbol is the stable human-readable name, e.g. "line-too-long".
	Symbol string
	// Template is the fmt format string rendered with report arguments.
	Template string
	// Description optionally expands on when the message fires.
	Description string
	// OldNames lists historical ids/symbols still accepted in lookups.
	OldNames []Alias
	// MinVersion/MaxVersion bound the target-language versions the message
	// applies to. Zero values leave the corresponding edge open.
	MinVersion LangVersion
	MaxVersion LangVersion
	// DefaultConfidence is used when a report carries no override.
	DefaultConfidence Confidence
	// Shared marks messages several checkers may declare together.
	Shared bool
}

// ErrBadDefinition indicates a structurally invalid message definition.
var ErrBadDefinition = errors.New("bad message definition")

// Category derives the category from the id's letter prefix.
func (d *Definition) Category() Category {
	if len(d.ID) == 0 {
		return CatFatal
	}
	cat, ok := CategoryFromLetter(d.ID[0])
	if !ok {
		return CatFatal
	}
	return cat
}

// Validate checks the structural invariants of the definition.
func (d *Definition) Validate() error {
	if len(d.ID) != 5 {
		return fmt.Errorf("%w: id %q must be a letter followed by four digits", ErrBadDefinition, d.ID)
	}
	if _, ok := CategoryFromLetter(d.ID[0]); !ok {
		return fmt.Errorf("%w: id %q has unknown category prefix", ErrBadDefinition, d.ID)
	}
	for _, b := range []byte(d.ID[1:]) {
		if b < '0' || b > '9' {
			return fmt.Errorf("%w: id %q must be a letter followed by four digits", ErrBadDefinition, d.ID)
		}
	}
	if d.Symbol == "" {
		return fmt.Errorf("%w: %s has no symbol", ErrBadDefinition, d.ID)
	}
	if d.Template == "" {
		return fmt.Errorf("%w: %s (%s) has no template", ErrBadDefinition, d.ID, d.Symbol)
	}
	if !d.MinVersion.IsZero() && !d.MaxVersion.IsZero() && d.MaxVersion.Less(d.MinVersion) {
		return fmt.Errorf("%w: %s window %s..%s is inverted", ErrBadDefinition, d.ID, d.MinVersion, d.MaxVersion)
	}
	return nil
}

// InWindow reports whether the message applies at the given target version.
// An unset target version matches every window.
func (d *Definition) InWindow(target LangVersion) bool {
	if target.IsZero() {
		return true
	}
	if !d.MinVersion.IsZero() && target.Less(d.MinVersion) {
		return false
	}
	if !d.MaxVersion.IsZero() && d.MaxVersion.Less(target) {
		return false
	}
	return true
}
