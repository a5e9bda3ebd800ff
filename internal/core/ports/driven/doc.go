// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContentRepository: Paginated, filtered table queries (Notion)
//   - ContentConverter: Page content to markdown (Notion blocks)
//   - IndexBackend: File upload and vector index membership (OpenAI)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncStateStore: Cursor persistence. Without it, resumption relies
//     solely on the cursor returned to the caller.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
