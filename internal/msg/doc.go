// Package msg defines the diagnostic data model shared by every engine layer.
//
//   - Definition / Catalog: immutable per-message metadata (id, symbol,
//     category, template, applicability window, historical aliases), built
//     once at startup, passed by reference. Registration conflicts are fatal.
//   - Finding / Bag: accepted diagnostic instances with deterministic sorting
//     and deduplication, ready for aggregation and rendering.
//   - Category / Confidence / LangVersion: the enumerations the filtering
//     pipeline is expressed in.
//
// The package performs no IO, formatting or suppression logic. Rendering lives
// in internal/reportfmt; accept/drop decisions live in internal/sink and
// internal/suppress. Keep the model deterministic and side-effect free so runs
// are reproducible and findings can be serialized for transport.
package msg
