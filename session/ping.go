package session

import "time"

// maxPingRing is the ping ledger's capacity (spec.md §3: MAX_PINGRING).
const maxPingRing = 12

type pingKey struct {
	nick string
	key  string
}

type pingEntry struct {
	key pingKey
	at  time.Time
}

// pingLedger is the bounded (peer_nick, opaque_key) -> timestamp mapping
// used to compute CTCP PING round-trip times. Insertion order tracks
// ascending timestamp, so eviction on overflow always drops the oldest
// entry (spec.md §3).
type pingLedger struct {
	order []pingEntry
}

// record stamps a new outbound ping, evicting the oldest entry first if
// the ledger is already at capacity.
func (p *pingLedger) record(nick, key string, at time.Time) {
	if len(p.order) >= maxPingRing {
		p.order = p.order[1:]
	}
	p.order = append(p.order, pingEntry{key: pingKey{nick: nick, key: key}, at: at})
}

// take removes and returns the timestamp for (nick, key), if present.
func (p *pingLedger) take(nick, key string) (time.Time, bool) {
	target := pingKey{nick: nick, key: key}
	for i, e := range p.order {
		if e.key == target {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return e.at, true
		}
	}
	return time.Time{}, false
}

func (p *pingLedger) len() int { return len(p.order) }
