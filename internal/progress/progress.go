// Package progress fans out Monte-Carlo simulation progress to one or more
// reporters, so a long SNR sweep can show intermediate error counts while
// it runs.
package progress

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Snapshot captures the state of one SNR point mid-sweep.
type Snapshot struct {
	Scheme       string        `json:"scheme"`
	SNRdB        float64       `json:"snr_db"`
	RepsDone     int           `json:"reps_done"`
	MaxReps      int           `json:"max_reps"`
	SymbolErrors int64         `json:"symbol_errors"`
	BitErrors    int64         `json:"bit_errors"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Reporter receives progress snapshots.
type Reporter interface {
	Report(s Snapshot)
}

// MultiReporter fans out snapshots to multiple destinations.
type MultiReporter []Reporter

// Report forwards the snapshot to each configured reporter.
func (m MultiReporter) Report(s Snapshot) {
	for _, r := range m {
		if r != nil {
			r.Report(s)
		}
	}
}

// LogReporter writes snapshots through a structured logger.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter builds a reporter on the given logger. A nil logger uses
// the process default.
func NewLogReporter(logger *log.Logger) LogReporter {
	if logger == nil {
		logger = log.Default()
	}
	return LogReporter{logger: logger}
}

func (r LogReporter) Report(s Snapshot) {
	r.logger.Info("progress",
		"scheme", s.Scheme,
		"snr_db", s.SNRdB,
		"reps", s.RepsDone,
		"max_reps", s.MaxReps,
		"symbol_errors", s.SymbolErrors,
		"bit_errors", s.BitErrors,
		"elapsed", s.Elapsed.Round(time.Millisecond),
	)
}

// Hub collects snapshot history and forwards live updates to subscribers.
// It is safe for concurrent use.
type Hub struct {
	mu           sync.RWMutex
	history      []Snapshot
	historyLimit int
	subscribers  map[chan Snapshot]struct{}
}

// NewHub builds a hub keeping at most historyLimit snapshots. Limits <= 0
// select a default of 1000.
func NewHub(historyLimit int) *Hub {
	if historyLimit <= 0 {
		historyLimit = 1000
	}
	return &Hub{
		historyLimit: historyLimit,
		subscribers:  make(map[chan Snapshot]struct{}),
	}
}

// Report implements Reporter and records a new snapshot.
func (h *Hub) Report(s Snapshot) {
	h.mu.Lock()
	h.history = append(h.history, s)
	if len(h.history) > h.historyLimit {
		h.history = h.history[len(h.history)-h.historyLimit:]
	}
	for ch := range h.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
	h.mu.Unlock()
}

// History returns a copy of the stored snapshots.
func (h *Hub) History() []Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Snapshot, len(h.history))
	copy(out, h.history)
	return out
}

// Subscribe registers a listener for live updates and returns the channel
// together with a cancel function.
func (h *Hub) Subscribe() (chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		close(ch)
		h.mu.Unlock()
	}
	return ch, cancel
}
