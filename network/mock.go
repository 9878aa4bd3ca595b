package network

import (
	"context"
	"sync"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wificonf/connectivity"
)

var _ Network = (*MockNetwork)(nil)
var _ connectivity.Prober = (*MockNetwork)(nil)

// MockNetwork simulates the radio without touching the host. It doubles as a
// prober reporting connectivity whenever it is in client mode.
type MockNetwork struct {
	// Networks maps joinable SSIDs to their psk. A nil map accepts anything.
	Networks map[string]string
	// Online sets the connectivity reported outside of client mode.
	Online bool

	mu    sync.Mutex
	mode  Mode
	ap    *AccessPoint
	ssid  string
	calls []string
}

func NewMockNetwork() *MockNetwork {
	return &MockNetwork{}
}

func (n *MockNetwork) Start() error {
	return nil
}

func (n *MockNetwork) Stop() error {
	return nil
}

func (n *MockNetwork) Status() *Status {
	n.mu.Lock()
	defer n.mu.Unlock()

	status := &Status{Mode: n.mode}

	switch n.mode {
	case ModeAccessPoint:
		status.Ssid = n.ap.Ssid
	case ModeClient:
		status.Ssid = n.ssid
	}

	return status
}

// Calls returns the mode changes issued so far.
func (n *MockNetwork) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.calls...)
}

func (n *MockNetwork) EnterAccessPoint(ctx context.Context, ap *AccessPoint) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls = append(n.calls, "ap:"+ap.Ssid)

	if ap.Ssid == "" {
		return errors.New("access point needs an ssid")
	}

	apCopy := *ap
	n.ap = &apCopy
	n.mode = ModeAccessPoint
	n.ssid = ""

	return nil
}

func (n *MockNetwork) EnterClientMode(ctx context.Context, connection Connection) error {
	ssid, psk, err := credentials(connection)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls = append(n.calls, "client:"+ssid)

	n.mode = ModeNone
	n.ap = nil

	if n.Networks != nil {
		expected, ok := n.Networks[ssid]
		if !ok {
			return &AssociationError{Ssid: ssid, Err: errors.New("network not found")}
		}

		if expected != psk {
			return &AssociationError{Ssid: ssid, Err: errors.New("authentication rejected")}
		}
	}

	n.mode = ModeClient
	n.ssid = ssid

	return nil
}

func (n *MockNetwork) Scan(ctx context.Context) ([]*Wifi, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	wifis := []*Wifi{}
	for ssid, psk := range n.Networks {
		wifis = append(wifis, &Wifi{Ssid: ssid, Signal: -50, Security: psk != ""})
	}

	return wifis, nil
}

func (n *MockNetwork) Probe(ctx context.Context, ifname string, deep bool) *connectivity.Result {
	n.mu.Lock()
	defer n.mu.Unlock()

	online := n.Online || n.mode == ModeClient

	return &connectivity.Result{
		HasAddress: online || n.mode == ModeAccessPoint,
		Reachable:  deep && online,
		Deep:       deep,
	}
}
