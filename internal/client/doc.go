// Package client implements the Backend Client Adapter described in the
// design: StdioClient and SSEClient both satisfy BackendClient, sharing
// protocol plumbing (list/call/ping) through the embedded base type and
// differing only in how the underlying transport is established.
package client
