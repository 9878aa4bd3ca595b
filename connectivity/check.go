package connectivity

import (
	"context"
	"time"

	"github.com/go-errors/errors"
	"github.com/miekg/dns"
	probing "github.com/prometheus-community/pro-bing"
)

const (
	DefaultResolver = "8.8.8.8:53"
	DefaultName     = "google.com."
	DefaultTarget   = "1.1.1.1"
)

// DNSChecker asks an external resolver for a well-known name.
type DNSChecker struct {
	Resolver string
	Name     string
}

func (c *DNSChecker) Check(ctx context.Context) error {
	resolver := c.Resolver
	if resolver == "" {
		resolver = DefaultResolver
	}

	name := c.Name
	if name == "" {
		name = DefaultName
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeA)
	msg.RecursionDesired = true

	client := new(dns.Client)
	if deadline, ok := ctx.Deadline(); ok {
		client.Timeout = time.Until(deadline)
	}

	resp, _, err := client.ExchangeContext(ctx, msg, resolver)
	if err != nil {
		return errors.Errorf("could not query %v: %v", resolver, err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return errors.Errorf("resolver %v answered %v", resolver, dns.RcodeToString[resp.Rcode])
	}

	if len(resp.Answer) == 0 {
		return errors.Errorf("resolver %v returned no answer for %v", resolver, name)
	}

	return nil
}

// PingChecker sends a single unprivileged ICMP echo.
type PingChecker struct {
	Target string
}

func (c *PingChecker) Check(ctx context.Context) error {
	target := c.Target
	if target == "" {
		target = DefaultTarget
	}

	pinger, err := probing.NewPinger(target)
	if err != nil {
		return errors.Errorf("could not create pinger: %v", err)
	}

	pinger.Count = 1
	pinger.Timeout = DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		pinger.Timeout = time.Until(deadline)
	}
	pinger.SetPrivileged(false)

	err = pinger.RunWithContext(ctx)
	if err != nil {
		return errors.Errorf("could not ping %v: %v", target, err)
	}

	if pinger.Statistics().PacketsRecv == 0 {
		return errors.Errorf("no reply from %v", target)
	}

	return nil
}
