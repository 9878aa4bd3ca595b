package network

import (
	"bufio"
	"sort"
	"strconv"
	"strings"
)

// parseIwScan reads the output of `iw dev <if> scan`. Duplicate SSIDs keep
// their strongest signal, hidden networks are skipped.
func parseIwScan(output string) []*Wifi {
	bySsid := make(map[string]*Wifi)
	var current *Wifi

	flush := func() {
		if current == nil || current.Ssid == "" {
			return
		}

		if known, ok := bySsid[current.Ssid]; ok {
			if current.Signal > known.Signal {
				known.Signal = current.Signal
			}
			known.Security = known.Security || current.Security
			return
		}

		bySsid[current.Ssid] = current
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "BSS ") {
			flush()
			current = &Wifi{}
			continue
		}

		if current == nil {
			continue
		}

		field := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(field, "SSID:"):
			current.Ssid = strings.TrimSpace(strings.TrimPrefix(field, "SSID:"))
		case strings.HasPrefix(field, "signal:"):
			value := strings.Fields(strings.TrimPrefix(field, "signal:"))
			if len(value) > 0 {
				current.Signal, _ = strconv.ParseFloat(value[0], 64)
			}
		case strings.HasPrefix(field, "RSN:"), strings.HasPrefix(field, "WPA:"):
			current.Security = true
		}
	}

	flush()

	wifis := make([]*Wifi, 0, len(bySsid))
	for _, wifi := range bySsid {
		wifis = append(wifis, wifi)
	}

	sort.Slice(wifis, func(i, j int) bool {
		if wifis[i].Signal == wifis[j].Signal {
			return wifis[i].Ssid < wifis[j].Ssid
		}
		return wifis[i].Signal > wifis[j].Signal
	})

	return wifis
}
