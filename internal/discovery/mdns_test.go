// ABOUTME: Tests for mDNS discovery
// ABOUTME: Exercises the manager lifecycle and the no-server timeout path
package discovery

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewManagerHasEmptyServerChannel(t *testing.T) {
	mgr := NewManager()
	defer mgr.Stop()

	select {
	case s := <-mgr.Servers():
		t.Fatalf("expected no servers yet, got %+v", s)
	default:
	}
}

func TestStopEndsBrowseLoop(t *testing.T) {
	mgr := NewManager()
	mgr.Browse()
	mgr.Stop()

	// Stop is best-effort: it must not panic or deadlock even though the
	// browse loop may be mid-query when cancellation lands.
	time.Sleep(10 * time.Millisecond)
}

func TestFindServerTimesOutWithoutAServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := FindServer(ctx)
	if err == nil {
		t.Fatal("expected an error when no server responds")
	}
	if !errors.Is(err, ErrNoServerFound) {
		t.Errorf("error = %v, want it to wrap ErrNoServerFound", err)
	}
}
