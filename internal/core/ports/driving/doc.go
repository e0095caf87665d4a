// Package driving defines the use-case interfaces (primary/inbound
// ports) exposed by the core to request-handling layers such as the
// CLI and the MCP server.
package driving
