package orchestrator

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wificonf/network"
)

type Mode int

const (
	Unconfigured Mode = iota
	AccessPoint
	Connecting
	Connected
	Failed
)

func (m Mode) String() string {
	switch m {
	case Unconfigured:
		return "unconfigured"
	case AccessPoint:
		return "access-point"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "invalid"
	}
}

type ModeChange struct {
	Mode Mode
	Time time.Time
}

// Credentials are held for a single attempt only.
type Credentials struct {
	Ssid string
	Psk  string
}

func (c *Credentials) String() string {
	if c.Psk == "" {
		return c.Ssid + " (open)"
	}

	return c.Ssid + " (psk " + strings.Repeat("*", len(c.Psk)) + ")"
}

func (c *Credentials) Validate() error {
	if strings.TrimSpace(c.Ssid) == "" {
		return errors.New("network name must not be empty")
	}

	// WPA2 passphrases are 8 to 63 characters, or a raw key of 64 hex digits
	if c.Psk != "" && (len(c.Psk) < 8 || len(c.Psk) > 64) {
		return errors.Errorf("passphrase must be between 8 and 64 characters, got %v", len(c.Psk))
	}

	if len(c.Psk) == 64 {
		if _, err := hex.DecodeString(c.Psk); err != nil {
			return errors.New("a 64 character passphrase must be a hex key")
		}
	}

	return nil
}

func (c *Credentials) connection() network.Connection {
	if c.Psk == "" {
		return &network.WpaConnection{Ssid: c.Ssid}
	}

	return &network.WpaPskConnection{Ssid: c.Ssid, Psk: c.Psk}
}

// Outcome is the result of one submission that was not rejected.
type Outcome struct {
	Succeeded bool
	// Mode is the mode the radio ended up in.
	Mode Mode
	Err  *TransitionError
}
