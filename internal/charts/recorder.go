package charts

import "sync"

// Recorder is a Renderer that keeps every drawn chart in memory, for tests.
type Recorder struct {
	mu    sync.Mutex
	drawn []*RecordedChart
}

// RecordedChart is a handle produced by Recorder.
type RecordedChart struct {
	Spec Spec

	mu        sync.Mutex
	destroyed int
}

func (c *RecordedChart) Destroy() {
	c.mu.Lock()
	c.destroyed++
	c.mu.Unlock()
}

// Destroyed returns how many times Destroy was called.
func (c *RecordedChart) Destroyed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

func (r *Recorder) Draw(spec Spec) Handle {
	c := &RecordedChart{Spec: spec}
	r.mu.Lock()
	r.drawn = append(r.drawn, c)
	r.mu.Unlock()
	return c
}

// Drawn returns every chart drawn so far, oldest first.
func (r *Recorder) Drawn() []*RecordedChart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedChart(nil), r.drawn...)
}

// Live returns the charts not yet destroyed.
func (r *Recorder) Live() []*RecordedChart {
	var out []*RecordedChart
	for _, c := range r.Drawn() {
		if c.Destroyed() == 0 {
			out = append(out, c)
		}
	}
	return out
}
