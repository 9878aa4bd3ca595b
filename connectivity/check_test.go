package connectivity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startResolver(t *testing.T, rcode int, answer bool) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})

	server := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetRcode(r, rcode)
			if answer {
				rr, _ := dns.NewRR(r.Question[0].Name + " 60 IN A 192.0.2.1")
				m.Answer = append(m.Answer, rr)
			}
			_ = w.WriteMsg(m)
		}),
	}

	go func() {
		_ = server.ActivateAndServe()
	}()

	<-started

	t.Cleanup(func() {
		_ = server.Shutdown()
	})

	return pc.LocalAddr().String()
}

func TestDNSCheckerSuccess(t *testing.T) {
	addr := startResolver(t, dns.RcodeSuccess, true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := &DNSChecker{Resolver: addr, Name: "example.org"}
	assert.NoError(t, c.Check(ctx))
}

func TestDNSCheckerServfail(t *testing.T) {
	addr := startResolver(t, dns.RcodeServerFailure, false)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := &DNSChecker{Resolver: addr, Name: "example.org"}
	err := c.Check(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVFAIL")
}

func TestDNSCheckerEmptyAnswer(t *testing.T) {
	addr := startResolver(t, dns.RcodeSuccess, false)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := &DNSChecker{Resolver: addr, Name: "example.org"}
	assert.Error(t, c.Check(ctx))
}

func TestDNSCheckerTimeout(t *testing.T) {
	// nothing answers on this socket
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c := &DNSChecker{Resolver: pc.LocalAddr().String()}
	assert.Error(t, c.Check(ctx))
}
