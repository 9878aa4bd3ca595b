package connectivity

import (
	"context"
	"time"
)

type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Online:
		return "ONLINE"
	default:
		return "INVALID STATE"
	}
}

// DefaultTimeout bounds a whole probe, deep check included.
const DefaultTimeout = 5 * time.Second

// Result is produced fresh by every probe.
type Result struct {
	HasAddress bool
	// Reachable is only meaningful when Deep is set.
	Reachable bool
	Deep      bool
}

// State reports Online when the probe found what it was asked to look for.
func (r *Result) State() State {
	if !r.HasAddress {
		return Offline
	}

	if r.Deep && !r.Reachable {
		return Offline
	}

	return Online
}

// Prober inspects an interface for connectivity. Absence of connectivity is a
// regular result, not an error.
type Prober interface {
	Probe(ctx context.Context, ifname string, deep bool) *Result
}

// Checker verifies reachability of something outside the local network.
type Checker interface {
	Check(ctx context.Context) error
}
