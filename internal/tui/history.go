package tui

// sparklineChars maps levels 0..7 to the block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// History keeps the most recent percentage samples (0..100) of one host
// metric in a fixed-capacity ring.
type History struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates a history holding up to capacity samples.
func NewHistory(capacity int) *History {
	return &History{data: make([]float64, max(capacity, 1))}
}

// Push adds a sample, overwriting the oldest when full.
func (h *History) Push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History) Len() int { return h.count }

// Last returns the most recent sample, or 0 if empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.data[(h.head+len(h.data)-1)%len(h.data)]
}

// Samples returns the samples oldest first.
func (h *History) Samples() []float64 {
	out := make([]float64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := range out {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// Sparkline renders the samples as one block character each, padded on the
// left with spaces to width.
func (h *History) Sparkline(width int) string {
	if width <= 0 {
		return ""
	}
	samples := h.Samples()
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	runes := make([]rune, 0, width)
	for range width - len(samples) {
		runes = append(runes, ' ')
	}
	for _, v := range samples {
		v = min(max(v, 0), 100)
		runes = append(runes, sparklineChars[int(v/100*7)])
	}
	return string(runes)
}
