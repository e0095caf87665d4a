// Package domain contains the core business entities for docmon:
// documents, chunks, versions, change records and search results.
// It has no dependencies on infrastructure or adapters.
package domain
