// Package domain defines the core business entities for Scholar.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested academic document with metadata
//   - Chunk: An embeddable passage within a document
//   - Session: A conversation with turns and research context
//   - Project: A named container of resources and findings
//   - Passage: A retrieved chunk with its similarity score
//
// Derived values (citations, bibliographies, toolset unions) are computed
// here as pure functions so they stay deterministic and testable.
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
