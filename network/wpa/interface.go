package wpa

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

// Interface states as reported by wpa_supplicant.
const (
	StateCompleted    = "completed"
	StateDisconnected = "disconnected"
	StateScanning     = "scanning"
)

type Interface struct {
	wpa *Wpa
	obj dbus.BusObject
}

func (i *Interface) String() string {
	return string(i.obj.Path())
}

func (i *Interface) State(ctx context.Context) (string, error) {
	call := i.obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, service+".Interface", "State")
	if call.Err != nil {
		return "", errors.Errorf("could not get state: %v", call.Err)
	}

	var v dbus.Variant
	err := call.Store(&v)
	if err != nil {
		return "", errors.Errorf("could not store value: %v", err)
	}

	state, ok := v.Value().(string)
	if !ok {
		return "", errors.Errorf("could not convert state: %v", v)
	}

	return state, nil
}

func (i *Interface) AddNetwork(ctx context.Context, ssid string, psk string) (*Network, error) {
	args := map[string]interface{}{
		"ssid": ssid,
	}

	if psk != "" {
		args["psk"] = psk
	} else {
		args["key_mgmt"] = "NONE"
	}

	call := i.obj.CallWithContext(ctx, service+".Interface.AddNetwork", 0, args)
	if call.Err != nil {
		return nil, errors.Errorf("could not add network: %v", call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return &Network{
		wpa: i.wpa,
		obj: i.wpa.conn.Object(service, objPath),
	}, nil
}

func (i *Interface) SelectNetwork(ctx context.Context, net *Network) error {
	call := i.obj.CallWithContext(ctx, service+".Interface.SelectNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not select network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveAllNetworks(ctx context.Context) error {
	call := i.obj.CallWithContext(ctx, service+".Interface.RemoveAllNetworks", 0)
	if call.Err != nil {
		return errors.Errorf("could not remove all networks: %v", call.Err)
	}

	return nil
}

func (i *Interface) Disconnect(ctx context.Context) error {
	call := i.obj.CallWithContext(ctx, service+".Interface.Disconnect", 0)
	if call.Err != nil {
		return errors.Errorf("could not disconnect: %v", call.Err)
	}

	return nil
}

// Network is a configured network block of an interface.
type Network struct {
	wpa *Wpa
	obj dbus.BusObject
}

func (n *Network) String() string {
	return string(n.obj.Path())
}
