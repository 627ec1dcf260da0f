// Package sink implements the single report entry point checkers call.
// Every report runs the same accept/drop pipeline: catalog resolution,
// version window, confidence filter, suppression query, then rendering.
// A failing step drops the report without raising; nothing above the sink
// throws during normal per-node processing.
package sink

import (
	"fmt"

	"pyrite/internal/msg"
	"pyrite/internal/pytree"
	"pyrite/internal/source"
	"pyrite/internal/suppress"
)

// Options wires a sink for one file.
type Options struct {
	Catalog *msg.Catalog
	State   *suppress.State
	Target  msg.LangVersion
	// MinConfidence drops findings whose effective confidence is lower.
	MinConfidence msg.Confidence
	Path          string
	Module        string
	Bag           *msg.Bag
}

// Sink resolves, filters and materializes findings for one file.
// It is not safe for concurrent use; each worker owns its own.
type Sink struct {
	opts    Options
	checker string
}

// New creates a sink.
func New(opts Options) *Sink {
	return &Sink{opts: opts}
}

// SetChecker names the checker whose hooks are currently running, so unknown
// ids can be flagged against the caller rather than the original subject.
func (s *Sink) SetChecker(name string) {
	s.checker = name
}

// Report files a finding at the node's position.
func (s *Sink) Report(id string, node *pytree.Node, args ...any) {
	s.report(id, positionOf(node), objectPathOf(node), msg.ConfidenceUndefined, false, args)
}

// ReportAt files a finding at an explicit position.
func (s *Sink) ReportAt(id string, pos source.Position, args ...any) {
	s.report(id, pos, "", msg.ConfidenceUndefined, false, args)
}

// ReportWithConfidence files a finding with an explicit confidence override.
func (s *Sink) ReportWithConfidence(id string, node *pytree.Node, conf msg.Confidence, args ...any) {
	s.report(id, positionOf(node), objectPathOf(node), conf, true, args)
}

func (s *Sink) report(id string, pos source.Position, objectPath string, conf msg.Confidence, hasConf bool, args []any) {
	def, ok := s.opts.Catalog.Lookup(id)
	if !ok {
		s.reportUnknownID(id, pos)
		return
	}

	// Outside the version window the message simply does not exist for this
	// run; this is not suppression and leaves no bookkeeping behind.
	if !def.InWindow(s.opts.Target) {
		return
	}

	effective := def.DefaultConfidence
	if hasConf {
		effective = conf
	}
	if effective < s.opts.MinConfidence {
		return
	}

	if s.opts.State != nil && !s.opts.State.IsEnabled(def.ID, pos.Line) {
		return
	}

	s.opts.Bag.Add(msg.Finding{
		MessageID:  def.ID,
		Symbol:     def.Symbol,
		Category:   def.Category(),
		Confidence: effective,
		Text:       fmt.Sprintf(def.Template, args...),
		Path:       s.opts.Path,
		Pos:        pos,
		Module:     s.opts.Module,
		ObjectPath: objectPath,
	})
}

// reportUnknownID flags the calling checker. The fault finding goes through
// the normal pipeline under its own id, so it stays suppressible.
func (s *Sink) reportUnknownID(id string, pos source.Position) {
	who := s.checker
	if who == "" {
		who = "engine"
	}
	s.report(msg.IDCheckerFault, pos, "", msg.ConfidenceUndefined, false,
		[]any{who, fmt.Sprintf("report of unknown message id %q", id)})
}

func positionOf(node *pytree.Node) source.Position {
	if node == nil {
		return source.At(1, 1)
	}
	return node.Pos
}

func objectPathOf(node *pytree.Node) string {
	if node == nil {
		return ""
	}
	return node.ObjectPath()
}
