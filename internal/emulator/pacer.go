package emulator

import "time"

// pacer spreads events evenly over wall clock time at a fixed rate. The
// number of due events is derived from the total elapsed time, so fractional
// events accumulate and there is no long term drift.
type pacer struct {
	rate      uint64 // events per second
	start     time.Time
	delivered uint64
}

func newPacer(rate int, start time.Time) *pacer {
	return &pacer{
		rate:  uint64(rate),
		start: start,
	}
}

// due returns the number of events that are due at the given time and have
// not been delivered yet.
func (p *pacer) due(now time.Time) uint64 {
	elapsed := now.Sub(p.start)
	if elapsed <= 0 {
		return 0
	}

	seconds := uint64(elapsed / time.Second)
	remainder := uint64(elapsed % time.Second)
	total := seconds*p.rate + remainder*p.rate/uint64(time.Second)
	if total <= p.delivered {
		return 0
	}
	return total - p.delivered
}

// deliver marks events as delivered.
func (p *pacer) deliver(count uint64) {
	p.delivered += count
}

// next returns the time at which the next undelivered event is due.
func (p *pacer) next() time.Time {
	event := p.delivered + 1
	seconds := event / p.rate
	remainder := event % p.rate
	fraction := (remainder*uint64(time.Second) + p.rate - 1) / p.rate
	return p.start.Add(time.Duration(seconds)*time.Second + time.Duration(fraction))
}

// restart discards the backlog and starts pacing from the given time.
func (p *pacer) restart(now time.Time) {
	p.start = now
	p.delivered = 0
}
