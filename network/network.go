package network

import (
	"context"
	"fmt"
	"time"

	"github.com/go-errors/errors"
)

// DefaultAssociationTimeout applies when the caller's context has no deadline.
const DefaultAssociationTimeout = 30 * time.Second

type Mode int

const (
	ModeNone Mode = iota
	ModeAccessPoint
	ModeClient
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeAccessPoint:
		return "access-point"
	case ModeClient:
		return "client"
	default:
		return "invalid"
	}
}

type Status struct {
	Mode Mode
	Ssid string
}

// AccessPoint describes the network hosted while waiting for configuration.
type AccessPoint struct {
	Ssid string
	// Passphrase is optional, an empty one hosts an open network.
	Passphrase string
	// Address is the static address of the interface in CIDR notation.
	Address    string
	RangeStart string
	RangeEnd   string
	Channel    int
}

type Connection interface{}

type WpaPskConnection struct {
	Ssid string
	Psk  string
}

func (c *WpaPskConnection) String() string {
	return fmt.Sprintf("%v (psk %v)", c.Ssid, mask(c.Psk))
}

type WpaConnection struct {
	Ssid string
}

func (c *WpaConnection) String() string {
	return c.Ssid + " (open)"
}

type Wifi struct {
	Ssid     string
	Signal   float64
	Security bool
}

// Network drives the single radio. Mode changes must not be issued
// concurrently.
type Network interface {
	Start() error
	Stop() error
	Status() *Status
	EnterAccessPoint(ctx context.Context, ap *AccessPoint) error
	EnterClientMode(ctx context.Context, connection Connection) error
	Scan(ctx context.Context) ([]*Wifi, error)
}

// AssociationError is returned when the radio could not join a network.
type AssociationError struct {
	Ssid string
	Err  error
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("association with %v failed: %v", e.Ssid, e.Err)
}

func (e *AssociationError) Unwrap() error {
	return e.Err
}

func credentials(connection Connection) (string, string, error) {
	switch conn := connection.(type) {
	case *WpaPskConnection:
		return conn.Ssid, conn.Psk, nil
	case *WpaConnection:
		return conn.Ssid, "", nil
	default:
		return "", "", errors.Errorf("unsupported connection type %T", connection)
	}
}

func mask(secret string) string {
	out := make([]byte, len(secret))
	for i := range out {
		out[i] = '*'
	}
	return string(out)
}
