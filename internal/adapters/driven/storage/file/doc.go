// Package file provides JSON-file-backed stores for sessions, projects
// and document metadata. Every store keeps its state in human-readable
// JSON under the data directory so it can be inspected and edited by hand.
package file
