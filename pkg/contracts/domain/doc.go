// Package domain holds the shared types of the results dashboard: result
// records, constraint sets, control options and the rendered view model.
// The types carry JSON tags and are used unchanged by the HTTP, WebSocket
// and command line surfaces.
package domain
