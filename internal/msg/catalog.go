package msg

import (
	"errors"
	"fmt"
	"sort"
)

// Catalog is the process-wide registry of message definitions. It is populated
// once at startup (registration conflicts are fatal) and read-only afterwards.
// Components receive it by reference so tests can build a fresh catalog
// containing only the definitions under test.
type Catalog struct {
	byID       map[string]*Definition
	bySymbol   map[string]*Definition
	oldByID    map[string]*Definition
	oldBySym   map[string]*Definition
	removedIDs map[string]string // id/symbol -> note shown for stale references
}

// ErrDuplicateMessage indicates an id/symbol collision during registration.
var ErrDuplicateMessage = errors.New("duplicate message")

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:       make(map[string]*Definition),
		bySymbol:   make(map[string]*Definition),
		oldByID:    make(map[string]*Definition),
		oldBySym:   make(map[string]*Definition),
		removedIDs: make(map[string]string),
	}
}

// Register adds definitions to the catalog. Any id or symbol collision,
// against current or historical names, is reported as an error; the caller is
// expected to treat it as fatal before any file is analyzed.
func (c *Catalog) Register(defs ...Definition) error {
	for i := range defs {
		def := defs[i]
		if err := def.Validate(); err != nil {
			return err
		}
		if err := c.checkCollision(def.ID, def.Symbol, def.Shared, &def); err != nil {
			return err
		}
		for _, old := range def.OldNames {
			if err := c.checkCollision(old.ID, old.Symbol, false, nil); err != nil {
				return fmt.Errorf("old name of %s: %w", def.ID, err)
			}
		}

		stored := new(Definition)
		*stored = def
		c.byID[def.ID] = stored
		c.bySymbol[def.Symbol] = stored
		for _, old := range def.OldNames {
			c.oldByID[old.ID] = stored
			c.oldBySym[old.Symbol] = stored
		}
	}
	return nil
}

// checkCollision reports an error when the id or symbol is already taken.
// Shared definitions may be re-registered as long as they are identical.
func (c *Catalog) checkCollision(id, symbol string, shared bool, def *Definition) error {
	if prev, ok := c.byID[id]; ok {
		if shared && def != nil && prev.Symbol == def.Symbol && prev.Template == def.Template {
			return nil
		}
		return fmt.Errorf("%w: id %s already registered as %s", ErrDuplicateMessage, id, prev.Symbol)
	}
	if prev, ok := c.bySymbol[symbol]; ok {
		return fmt.Errorf("%w: symbol %s already registered as %s", ErrDuplicateMessage, symbol, prev.ID)
	}
	if prev, ok := c.oldByID[id]; ok {
		return fmt.Errorf("%w: id %s is a historical name of %s", ErrDuplicateMessage, id, prev.ID)
	}
	if prev, ok := c.oldBySym[symbol]; ok {
		return fmt.Errorf("%w: symbol %s is a historical name of %s", ErrDuplicateMessage, symbol, prev.ID)
	}
	return nil
}

// MarkRemoved records ids/symbols that existed in earlier releases so stale
// references can be told apart from names that never existed.
func (c *Catalog) MarkRemoved(note string, names ...string) {
	for _, name := range names {
		c.removedIDs[name] = note
	}
}

// Lookup resolves an id or symbol, checking current names before historical
// aliases. Historical names redirect to their current definition.
func (c *Catalog) Lookup(idOrSymbol string) (*Definition, bool) {
	if def, ok := c.byID[idOrSymbol]; ok {
		return def, true
	}
	if def, ok := c.bySymbol[idOrSymbol]; ok {
		return def, true
	}
	if def, ok := c.oldByID[idOrSymbol]; ok {
		return def, true
	}
	if def, ok := c.oldBySym[idOrSymbol]; ok {
		return def, true
	}
	return nil, false
}

// WasRemoved reports whether the name existed in an earlier release, with the
// note recorded at removal time.
func (c *Catalog) WasRemoved(idOrSymbol string) (string, bool) {
	note, ok := c.removedIDs[idOrSymbol]
	return note, ok
}

// All returns every definition sorted by id.
func (c *Catalog) All() []*Definition {
	defs := make([]*Definition, 0, len(c.byID))
	for _, def := range c.byID {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Len returns the number of current definitions.
func (c *Catalog) Len() int {
	return len(c.byID)
}
