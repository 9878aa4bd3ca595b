package wpa

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

const (
	service    = "fi.w1.wpa_supplicant1"
	objectPath = "/fi/w1/wpa_supplicant1"

	errInterfaceUnknown = "fi.w1.wpa_supplicant1.InterfaceUnknown"
)

// Wpa talks to wpa_supplicant over the system bus. Every call is bounded by
// its context.
type Wpa struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func New() *Wpa {
	return &Wpa{}
}

func (w *Wpa) Start() error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return errors.Errorf("could not connect to system bus: %v", err)
	}

	w.conn = conn
	w.obj = conn.Object(service, objectPath)

	return nil
}

func (w *Wpa) Stop() error {
	if w.conn == nil {
		return nil
	}

	err := w.conn.Close()
	if err != nil {
		return errors.Errorf("could not close system bus connection: %v", err)
	}

	w.conn = nil

	return nil
}

// GetInterface returns nil without an error when wpa_supplicant does not
// manage the interface.
func (w *Wpa) GetInterface(ctx context.Context, ifname string) (*Interface, error) {
	call := w.obj.CallWithContext(ctx, service+".GetInterface", 0, ifname)
	if call.Err != nil {
		if isDbusError(call.Err, errInterfaceUnknown) {
			return nil, nil
		}

		return nil, errors.Errorf("could not get interface %v: %v", ifname, call.Err)
	}

	var path dbus.ObjectPath
	err := call.Store(&path)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return w.iface(path), nil
}

func (w *Wpa) CreateInterface(ctx context.Context, ifname string) (*Interface, error) {
	call := w.obj.CallWithContext(ctx, service+".CreateInterface", 0, map[string]interface{}{
		"Ifname": ifname,
	})
	if call.Err != nil {
		return nil, errors.Errorf("could not create interface %v: %v", ifname, call.Err)
	}

	var path dbus.ObjectPath
	err := call.Store(&path)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return w.iface(path), nil
}

func (w *Wpa) RemoveInterface(ctx context.Context, iface *Interface) error {
	call := w.obj.CallWithContext(ctx, service+".RemoveInterface", 0, iface.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not remove interface: %v", call.Err)
	}

	return nil
}

func (w *Wpa) iface(path dbus.ObjectPath) *Interface {
	return &Interface{
		wpa: w,
		obj: w.conn.Object(service, path),
	}
}

func isDbusError(err error, name string) bool {
	switch e := err.(type) {
	case dbus.Error:
		return e.Name == name
	case *dbus.Error:
		return e.Name == name
	default:
		return false
	}
}
