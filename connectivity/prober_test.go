package connectivity

import (
	"context"
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

type mockLinks struct {
	mock.Mock
}

func (m *mockLinks) LinkByName(name string) (netlink.Link, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}

func (m *mockLinks) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	args := m.Called(link, family)
	return args.Get(0).([]netlink.Addr), args.Error(1)
}

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

func wlan0WithAddrs(t *testing.T, cidrs ...string) *mockLinks {
	link := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "wlan0", Index: 3}}

	var addrs []netlink.Addr
	for _, cidr := range cidrs {
		addr, err := netlink.ParseAddr(cidr)
		if err != nil {
			t.Fatal(err)
		}
		addrs = append(addrs, *addr)
	}

	links := new(mockLinks)
	links.On("LinkByName", "wlan0").Return(link, nil)
	links.On("AddrList", link, netlink.FAMILY_V4).Return(addrs, nil)
	return links
}

func TestProbeShallow(t *testing.T) {
	links := wlan0WithAddrs(t, "192.168.1.23/24")
	called := false

	p := NewProber(&Config{
		Links: links,
		Checker: checkerFunc(func(ctx context.Context) error {
			called = true
			return nil
		}),
	})

	res := p.Probe(context.Background(), "wlan0", false)
	assert.True(t, res.HasAddress)
	assert.False(t, res.Reachable)
	assert.Equal(t, Online, res.State())
	assert.False(t, called, "shallow probe must not run the deep check")
	links.AssertExpectations(t)
}

func TestProbeDeepReachable(t *testing.T) {
	p := NewProber(&Config{
		Links:   wlan0WithAddrs(t, "10.0.0.5/8"),
		Checker: checkerFunc(func(ctx context.Context) error { return nil }),
	})

	res := p.Probe(context.Background(), "wlan0", true)
	assert.True(t, res.HasAddress)
	assert.True(t, res.Reachable)
	assert.Equal(t, Online, res.State())
}

func TestProbeDeepUnreachable(t *testing.T) {
	p := NewProber(&Config{
		Links:   wlan0WithAddrs(t, "10.0.0.5/8"),
		Checker: checkerFunc(func(ctx context.Context) error { return errors.New("no route to host") }),
	})

	res := p.Probe(context.Background(), "wlan0", true)
	assert.True(t, res.HasAddress)
	assert.False(t, res.Reachable)
	assert.Equal(t, Offline, res.State())
}

func TestProbeIgnoresLinkLocal(t *testing.T) {
	called := false

	p := NewProber(&Config{
		Links: wlan0WithAddrs(t, "169.254.10.2/16"),
		Checker: checkerFunc(func(ctx context.Context) error {
			called = true
			return nil
		}),
	})

	res := p.Probe(context.Background(), "wlan0", true)
	assert.False(t, res.HasAddress)
	assert.False(t, res.Reachable)
	assert.False(t, called)
}

func TestProbeMissingInterface(t *testing.T) {
	links := new(mockLinks)
	links.On("LinkByName", "wlan9").Return(nil, errors.New("Link not found"))

	p := NewProber(&Config{Links: links})

	res := p.Probe(context.Background(), "wlan9", true)
	assert.Equal(t, &Result{Deep: true}, res)
}

func TestProbeBoundedByTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	p := NewProber(&Config{
		Links:   wlan0WithAddrs(t, "192.168.1.23/24"),
		Timeout: 50 * time.Millisecond,
		Checker: checkerFunc(func(ctx context.Context) error {
			// ignores ctx on purpose
			<-block
			return nil
		}),
	})

	start := time.Now()
	res := p.Probe(context.Background(), "wlan0", true)

	assert.False(t, res.Reachable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProbeDeepWithoutChecker(t *testing.T) {
	p := NewProber(&Config{Links: wlan0WithAddrs(t, "192.168.1.23/24")})

	res := p.Probe(context.Background(), "wlan0", true)
	assert.True(t, res.HasAddress)
	assert.False(t, res.Reachable)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ONLINE", Online.String())
	assert.Equal(t, "OFFLINE", Offline.String())
	assert.Equal(t, "INVALID STATE", State(7).String())
}

func TestResultState(t *testing.T) {
	assert.Equal(t, Offline, (&Result{}).State())
	assert.Equal(t, Online, (&Result{HasAddress: true}).State())
	assert.Equal(t, Offline, (&Result{HasAddress: true, Deep: true}).State())
	assert.Equal(t, Online, (&Result{HasAddress: true, Deep: true, Reachable: true}).State())
}
