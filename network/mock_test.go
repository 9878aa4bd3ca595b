package network

import (
	"context"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockNetworkAccessPointTwice(t *testing.T) {
	n := NewMockNetwork()

	require.NoError(t, n.EnterAccessPoint(context.Background(), testAP))
	first := n.Status()

	require.NoError(t, n.EnterAccessPoint(context.Background(), testAP))
	assert.Equal(t, first, n.Status())
	assert.Equal(t, &Status{Mode: ModeAccessPoint, Ssid: "wificonf-setup"}, n.Status())
}

func TestMockNetworkRejectsWrongPsk(t *testing.T) {
	n := NewMockNetwork()
	n.Networks = map[string]string{"home": "secret123"}

	err := n.EnterClientMode(context.Background(), &WpaPskConnection{Ssid: "home", Psk: "nope"})

	var assocErr *AssociationError
	require.True(t, errors.As(err, &assocErr))
	assert.Equal(t, ModeNone, n.Status().Mode)

	res := n.Probe(context.Background(), "wlan0", true)
	assert.False(t, res.HasAddress)
	assert.False(t, res.Reachable)
}

func TestMockNetworkJoinsAndProbesOnline(t *testing.T) {
	n := NewMockNetwork()
	n.Networks = map[string]string{"home": "secret123"}

	require.NoError(t, n.EnterAccessPoint(context.Background(), testAP))
	assert.False(t, n.Probe(context.Background(), "wlan0", true).Reachable)

	require.NoError(t, n.EnterClientMode(context.Background(), &WpaPskConnection{Ssid: "home", Psk: "secret123"}))
	assert.Equal(t, &Status{Mode: ModeClient, Ssid: "home"}, n.Status())
	assert.True(t, n.Probe(context.Background(), "wlan0", true).Reachable)

	assert.Equal(t, []string{"ap:wificonf-setup", "client:home"}, n.Calls())
}
