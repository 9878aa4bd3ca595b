package network

import (
	"context"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wificonf/network/wpa"
)

// Supplicant manages client associations of an interface.
type Supplicant interface {
	Start() error
	Stop() error
	// Release hands the interface back so that hostapd can take it over.
	Release(ctx context.Context, ifname string) error
	// Associate joins the network and blocks until the association completes
	// or ctx is done.
	Associate(ctx context.Context, ifname string, ssid string, psk string) error
}

// cleanupTimeout bounds the removal of a half configured network after an
// association ran out of time.
const cleanupTimeout = 2 * time.Second

type wpaSupplicant struct {
	wpa          *wpa.Wpa
	pollInterval time.Duration
}

func newWpaSupplicant() *wpaSupplicant {
	return &wpaSupplicant{
		wpa:          wpa.New(),
		pollInterval: 500 * time.Millisecond,
	}
}

func (s *wpaSupplicant) Start() error {
	return s.wpa.Start()
}

func (s *wpaSupplicant) Stop() error {
	return s.wpa.Stop()
}

func (s *wpaSupplicant) Release(ctx context.Context, ifname string) error {
	iface, err := s.wpa.GetInterface(ctx, ifname)
	if err != nil {
		return err
	}

	if iface == nil {
		return nil
	}

	err = iface.Disconnect(ctx)
	if err != nil {
		return err
	}

	return s.wpa.RemoveInterface(ctx, iface)
}

func (s *wpaSupplicant) Associate(ctx context.Context, ifname string, ssid string, psk string) error {
	iface, err := s.wpa.GetInterface(ctx, ifname)
	if err != nil {
		return err
	}

	if iface == nil {
		iface, err = s.wpa.CreateInterface(ctx, ifname)
		if err != nil {
			return err
		}
	}

	err = iface.RemoveAllNetworks(ctx)
	if err != nil {
		return err
	}

	net, err := iface.AddNetwork(ctx, ssid, psk)
	if err != nil {
		return err
	}

	err = iface.SelectNetwork(ctx, net)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	state := ""

	for {
		state, err = iface.State(ctx)
		if err != nil {
			s.cleanup(ctx, iface)
			return err
		}

		if state == wpa.StateCompleted {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.cleanup(ctx, iface)
			return errors.Errorf("association did not complete (last state %v): %v", state, ctx.Err())
		}
	}
}

// cleanup leaves nothing half associated behind, even when ctx is done.
func (s *wpaSupplicant) cleanup(ctx context.Context, iface *wpa.Interface) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	_ = iface.RemoveAllNetworks(ctx)
}
