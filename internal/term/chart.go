package term

import (
	"math"
	"strings"
	"sync"

	"github.com/joestump/joe-expenses/internal/charts"
)

const barWidth = 30

type chartHandle struct {
	s    *Screen
	once sync.Once
}

func (h *chartHandle) Destroy() {
	h.once.Do(func() {
		h.s.mu.Lock()
		delete(h.s.live, h)
		h.s.mu.Unlock()
	})
}

// Draw prints spec as a text chart. The chart counts as live until its
// handle is destroyed.
func (s *Screen) Draw(spec charts.Spec) charts.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &chartHandle{s: s}
	s.live[h] = struct{}{}

	var b strings.Builder
	b.WriteString(s.st.title.Render(spec.Title))
	b.WriteString("\n")
	switch spec.Kind {
	case charts.Doughnut:
		s.shares(&b, spec)
	default:
		s.bars(&b, spec)
	}
	s.println(strings.TrimRight(b.String(), "\n"))
	return h
}

// bars draws one horizontal bar per label scaled to the largest value.
func (s *Screen) bars(b *strings.Builder, spec charts.Spec) {
	peak := 0.0
	for _, v := range spec.Values {
		peak = math.Max(peak, v)
	}
	width := labelWidth(spec.Labels)
	for i, label := range spec.Labels {
		v := valueAt(spec.Values, i)
		n := 0
		if peak > 0 {
			n = int(math.Round(v / peak * barWidth))
		}
		b.WriteString(s.st.label.Render(pad(label, width)))
		b.WriteString(" ")
		b.WriteString(s.st.good.Render(strings.Repeat("█", n)))
		b.WriteString(" ")
		b.WriteString(s.fmt.Currency(v))
		b.WriteString("\n")
	}
}

// shares draws each label's share of the total.
func (s *Screen) shares(b *strings.Builder, spec charts.Spec) {
	total := 0.0
	for _, v := range spec.Values {
		total += v
	}
	width := labelWidth(spec.Labels)
	for i, label := range spec.Labels {
		v := valueAt(spec.Values, i)
		ratio := 0.0
		if total > 0 {
			ratio = v / total
		}
		b.WriteString(s.st.label.Render(pad(label, width)))
		b.WriteString(" ")
		b.WriteString(s.st.good.Render(strings.Repeat("●", int(math.Round(ratio*barWidth/2)))))
		b.WriteString(" ")
		b.WriteString(s.fmt.Percent(ratio))
		b.WriteString("\n")
	}
}

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		w = max(w, len([]rune(l)))
	}
	return w
}

func pad(s string, w int) string {
	return s + strings.Repeat(" ", max(0, w-len([]rune(s))))
}

func valueAt(vs []float64, i int) float64 {
	if i < len(vs) {
		return vs[i]
	}
	return 0
}
