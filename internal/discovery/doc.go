// ABOUTME: mDNS-based JackTrip server discovery
// ABOUTME: Used only when the endpoint is not given a server address explicitly
// Package discovery finds a JackTrip server on the local network via mDNS
// when the endpoint's configuration leaves ServerIP unset. It supplements
// spec §4.2 (which assumes ServerIP is already known) with a zero-config
// path that the original bare-metal target has no equivalent of.
package discovery
