// ABOUTME: Diagnostics push feed for the bridge
// ABOUTME: Serves a websocket that streams bridge.Stats snapshots once a second
// Package diag exposes the running endpoint's connection and ring-buffer
// state to an external observer (a browser tab, a fleet dashboard) over a
// websocket. It exists purely to supplement operational visibility; nothing
// in spec's core modules depends on it.
package diag
