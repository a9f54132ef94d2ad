package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type obsCall struct {
	name   string
	value  float64
	labels Labels
}

// fakeBackend is an in-memory Backend implementation for tests.
type fakeBackend struct {
	mu       sync.Mutex
	counters []counterCall
	obs      []obsCall
	flushes  int
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveDuration(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, obsCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{}
	SetBackend(f)
	t.Cleanup(func() { SetBackend(nopBackend{}) })
	return f
}

func TestRecordBatch(t *testing.T) {
	f := install(t)
	RecordBatch("job1", "b_001.csv", nil, 250*time.Millisecond)
	RecordBatch("job1", "b_002.csv", errors.New("boom"), time.Second)

	if len(f.counters) != 2 {
		t.Fatalf("counters = %d, want 2", len(f.counters))
	}
	if got := f.counters[0].labels["status"]; got != "success" {
		t.Fatalf("status = %q, want success", got)
	}
	if got := f.counters[1].labels["status"]; got != "failure" {
		t.Fatalf("status = %q, want failure", got)
	}
	if len(f.obs) != 2 || f.obs[0].value != 0.25 {
		t.Fatalf("observations = %+v", f.obs)
	}
}

func TestRecordRowsSkipsNonPositive(t *testing.T) {
	f := install(t)
	RecordRows("job1", "clean", 0)
	RecordRows("job1", "clean", -3)
	RecordRows("job1", "clean", 7)
	if len(f.counters) != 1 || f.counters[0].delta != 7 {
		t.Fatalf("counters = %+v, want one call with delta 7", f.counters)
	}
}

func TestRecordFieldRejects(t *testing.T) {
	f := install(t)
	RecordFieldRejects("job1", "soft", "zip_codes", 4)
	if len(f.counters) != 1 {
		t.Fatalf("counters = %d, want 1", len(f.counters))
	}
	got := f.counters[0]
	if got.name != "scrub_field_rejects_total" || got.labels["pass"] != "soft" || got.labels["field"] != "zip_codes" {
		t.Fatalf("call = %+v", got)
	}
}

func TestSetBackendNilKeepsExisting(t *testing.T) {
	f := install(t)
	SetBackend(nil)
	RecordRows("job1", "input", 1)
	if len(f.counters) != 1 {
		t.Fatalf("nil SetBackend should not replace the installed backend")
	}
}

func TestFlushDelegates(t *testing.T) {
	f := install(t)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if f.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", f.flushes)
	}
}
