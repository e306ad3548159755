package progress

import (
	"testing"
)

type captureReporter struct {
	got []Snapshot
}

func (c *captureReporter) Report(s Snapshot) { c.got = append(c.got, s) }

func TestMultiReporterFanOut(t *testing.T) {
	a := &captureReporter{}
	b := &captureReporter{}
	m := MultiReporter{a, nil, b}

	m.Report(Snapshot{Scheme: "16-QAM", SNRdB: 6})
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("expected one snapshot per reporter, got %d and %d", len(a.got), len(b.got))
	}
	if a.got[0].Scheme != "16-QAM" || b.got[0].SNRdB != 6 {
		t.Fatalf("snapshot not forwarded intact: %+v %+v", a.got[0], b.got[0])
	}
}

func TestHubHistoryLimit(t *testing.T) {
	h := NewHub(3)
	for i := 0; i < 5; i++ {
		h.Report(Snapshot{RepsDone: i})
	}
	hist := h.History()
	if len(hist) != 3 {
		t.Fatalf("expected 3 snapshots kept, got %d", len(hist))
	}
	for i, s := range hist {
		if s.RepsDone != i+2 {
			t.Fatalf("expected oldest entries dropped, got reps %d at %d", s.RepsDone, i)
		}
	}
}

func TestHubHistoryIsACopy(t *testing.T) {
	h := NewHub(0)
	h.Report(Snapshot{RepsDone: 1})
	hist := h.History()
	hist[0].RepsDone = 99
	if h.History()[0].RepsDone != 1 {
		t.Fatalf("History must return a copy")
	}
}

func TestHubSubscribe(t *testing.T) {
	h := NewHub(0)
	ch, cancel := h.Subscribe()

	h.Report(Snapshot{SymbolErrors: 7})
	select {
	case s := <-ch:
		if s.SymbolErrors != 7 {
			t.Fatalf("unexpected snapshot %+v", s)
		}
	default:
		t.Fatalf("expected a live update")
	}

	cancel()
	// Reporting after cancel must not panic or block.
	h.Report(Snapshot{SymbolErrors: 8})
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after cancel")
	}
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(0)
	_, cancel := h.Subscribe()
	defer cancel()

	// Fill past the channel buffer; Report must keep returning.
	for i := 0; i < 64; i++ {
		h.Report(Snapshot{RepsDone: i})
	}
	if len(h.History()) != 64 {
		t.Fatalf("expected 64 snapshots, got %d", len(h.History()))
	}
}
