// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Produces raw text from a source file
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Vector storage and similarity search
//   - DocumentStore: Document and chunk persistence
//   - SessionStore: Session persistence
//   - ProjectStore: Project and connection persistence
//   - MetadataStore: Document metadata persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CompletionService: External text completion. Without it, asking
//     returns raw passages only and memory summarization is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
