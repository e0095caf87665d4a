// Package driven provides interfaces for infrastructure collaborators
// (secondary/outbound ports): fetching, storage, diffing, embeddings
// and language models. The core consumes these through the narrow
// contracts defined here and never depends on concrete adapters.
package driven
