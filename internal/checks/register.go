package checks

import (
	"pyrite/internal/checkers"
	"pyrite/internal/msg"
)

// NewRegistry builds a registry with fresh instances of every built-in
// checker. Fresh instances matter: the duplication checker carries cross-file
// state and must never be shared between workers.
func NewRegistry(catalog *msg.Catalog) (*checkers.Registry, error) {
	reg := checkers.NewRegistry(catalog)
	if err := reg.AddRaw(NewLineLength()); err != nil {
		return nil, err
	}
	if err := reg.AddRaw(NewFixme()); err != nil {
		return nil, err
	}
	if err := reg.Add(NewDesign()); err != nil {
		return nil, err
	}
	if err := reg.Add(NewDupName()); err != nil {
		return nil, err
	}
	return reg, nil
}
