package scan

import "sync/atomic"

// ProgressSnapshot is a point-in-time copy of Progress counters. Excluded
// counts files and pruned directories left out by a rule.
type ProgressSnapshot struct {
	Running    bool  `json:"running"`
	Scanned    int64 `json:"scanned"`
	Classified int64 `json:"classified"`
	Unknown    int64 `json:"unknown"`
	Excluded   int64 `json:"excluded"`
	Oversized  int64 `json:"oversized"`
	Errors     int64 `json:"errors"`
}

// Progress tracks a running walk. It is safe to read from another goroutine
// while Walk updates it, and a nil *Progress ignores every update.
type Progress struct {
	running    atomic.Bool
	scanned    atomic.Int64
	classified atomic.Int64
	unknown    atomic.Int64
	excluded   atomic.Int64
	oversized  atomic.Int64
	errors     atomic.Int64
}

func (p *Progress) setRunning(running bool) {
	if p == nil {
		return
	}
	p.running.Store(running)
}

func (p *Progress) addScanned() {
	if p == nil {
		return
	}
	p.scanned.Add(1)
}

func (p *Progress) addClassified(unknown bool) {
	if p == nil {
		return
	}
	p.classified.Add(1)
	if unknown {
		p.unknown.Add(1)
	}
}

func (p *Progress) addExcluded() {
	if p == nil {
		return
	}
	p.excluded.Add(1)
}

func (p *Progress) addOversized() {
	if p == nil {
		return
	}
	p.oversized.Add(1)
}

func (p *Progress) addError() {
	if p == nil {
		return
	}
	p.errors.Add(1)
}

// Snapshot returns the current counter values. A nil Progress reports zeros.
func (p *Progress) Snapshot() ProgressSnapshot {
	if p == nil {
		return ProgressSnapshot{}
	}
	return ProgressSnapshot{
		Running:    p.running.Load(),
		Scanned:    p.scanned.Load(),
		Classified: p.classified.Load(),
		Unknown:    p.unknown.Load(),
		Excluded:   p.excluded.Load(),
		Oversized:  p.oversized.Load(),
		Errors:     p.errors.Load(),
	}
}
