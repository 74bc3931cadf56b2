package statsd

import (
	"sync"
	"time"
)

// Metric is one recorded emission.
type Metric struct {
	Name  string
	Value float64
	Tags  map[string]string
}

// Recorder keeps emitted metrics in memory, for tests and the CLI's --stats output.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add(Metric{Name: name, Value: float64(value), Tags: cloneTags(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(Metric{Name: name, Value: float64(value) / float64(time.Millisecond), Tags: cloneTags(tags)})
}

func (r *Recorder) add(m Metric) {
	r.mu.Lock()
	r.metrics = append(r.metrics, m)
	r.mu.Unlock()
}

// Metrics returns a snapshot of everything recorded so far.
func (r *Recorder) Metrics() []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Metric(nil), r.metrics...)
}

// Named returns the recorded metrics with the given name.
func (r *Recorder) Named(name string) []Metric {
	var out []Metric
	for _, m := range r.Metrics() {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}
