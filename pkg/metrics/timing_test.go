package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestRecordStats(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	st := m.Stats()
	if st.Count != 2 || st.MaxMs != 4 || st.MinMs != 2 || st.AvgMs != 3 {
		t.Errorf("stats = %+v", st)
	}
	m.Reset()
	if m.Count() != 0 || m.MaxNs() != 0 {
		t.Error("Reset should clear the metric")
	}
}

func TestDisabledRecordsNothing(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Millisecond)
	if m.Count() != 0 {
		t.Errorf("count = %d while disabled", m.Count())
	}
}

func TestSummaryListsRecordedStages(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	Render.Record(time.Millisecond)
	s := Summary()
	if !strings.Contains(s, "render") || strings.Contains(s, "flatten") {
		t.Errorf("summary = %q", s)
	}
	if len(AllTimingStats()) != 1 {
		t.Errorf("stats = %+v", AllTimingStats())
	}
}
