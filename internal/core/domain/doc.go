// Package domain defines the core business entities for carriersync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FieldValue: A typed property value read from the source repository
//   - Row / SourceRecord: A table row and an eligible parent record
//   - SectionSpec: A linked-table enrichment block
//   - AssembledDocument / Chunk: The rendered text and its published slices
//   - SyncOptions / SyncResult: The resumable cursor protocol
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
