// ABOUTME: mDNS browsing for JackTrip servers
// ABOUTME: Client-only: this endpoint never advertises itself
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service a JackTrip server is expected to
// advertise itself under. JackTrip proper has no standard mDNS record; this
// is the convention this endpoint's ecosystem uses.
const ServiceType = "_jacktrip._tcp"

// ErrNoServerFound is returned by FindServer when the browse window closes
// without a single response.
var ErrNoServerFound = errors.New("discovery: no JackTrip server found")

// ServerInfo describes a discovered JackTrip server.
type ServerInfo struct {
	Name string
	Host string
	Port int
}

// Manager browses for JackTrip servers on the local network.
type Manager struct {
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo
}

// NewManager creates a discovery manager. Call Stop when done to release
// its background browse loop.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),
	}
}

// Browse starts a continuous background browse, pushing every discovered
// server onto the Servers() channel.
func (m *Manager) Browse() {
	go m.browseLoop()
}

func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				server := &ServerInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}
				log.Printf("discovery: found JackTrip server %s at %s:%d", server.Name, server.Host, server.Port)
				select {
				case m.servers <- server:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		mdns.Query(&mdns.QueryParam{
			Service: ServiceType,
			Domain:  "local",
			Timeout: 3,
			Entries: entries,
		})
		close(entries)
	}
}

// Servers returns the channel of discovered servers.
func (m *Manager) Servers() <-chan *ServerInfo {
	return m.servers
}

// Stop halts the browse loop.
func (m *Manager) Stop() {
	m.cancel()
}

// FindServer runs a single browse pass and returns the first server seen,
// or ErrNoServerFound if ctx is done first. It's the synchronous entry
// point cmd/jtclient uses when ServerIP is left unset in configuration.
func FindServer(ctx context.Context) (*ServerInfo, error) {
	entries := make(chan *mdns.ServiceEntry, 1)
	result := make(chan *ServerInfo, 1)

	go func() {
		for entry := range entries {
			result <- &ServerInfo{Name: entry.Name, Host: entry.AddrV4.String(), Port: entry.Port}
			return
		}
	}()

	go func() {
		mdns.Query(&mdns.QueryParam{
			Service: ServiceType,
			Domain:  "local",
			Timeout: 3,
			Entries: entries,
		})
		close(entries)
	}()

	select {
	case s := <-result:
		return s, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrNoServerFound, ctx.Err())
	}
}
