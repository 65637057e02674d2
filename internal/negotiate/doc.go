// ABOUTME: Session negotiator package
// ABOUTME: One-shot TCP rendezvous producing a bound, connected UDP endpoint
// Package negotiate performs the JackTrip session handshake: a client picks
// a TCP ephemeral port and a UDP port, connects to the server over TCP,
// exchanges 4-byte port numbers, then hands back a UDP socket bound and
// connected to the server's advertised UDP port.
//
// Example:
//
//	res, err := negotiate.Negotiate("192.168.10.10", negotiate.JackTripTCPPort)
//	if err != nil {
//	    // retry after a cool-down; see ErrNegotiationFailed
//	}
//	defer res.Conn.Close()
package negotiate
