// ABOUTME: Bubbletea status screen for the bridge
// ABOUTME: Polls bridge.Stats on a tick and renders connection/ring-buffer health
// Package tui is an optional terminal status screen: connection state,
// sequence number, ring buffer fill fraction and recenter count. It carries
// none of the track-metadata/volume/mute concerns a music player TUI would,
// since a JackTrip endpoint has no track metadata to show.
package tui
