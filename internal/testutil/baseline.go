package testutil

import "sync"

// RecordingBaseline is an in-memory baseline that counts reads and keeps
// every written text.
type RecordingBaseline struct {
	mu     sync.Mutex
	text   string
	err    error
	reads  int
	writes []string
}

// NewRecordingBaseline returns a baseline holding text.
func NewRecordingBaseline(text string) *RecordingBaseline {
	return &RecordingBaseline{text: text}
}

// FailingBaseline returns a baseline whose reads fail with err.
func FailingBaseline(err error) *RecordingBaseline {
	return &RecordingBaseline{err: err}
}

// Read implements outcome.Baseline.
func (b *RecordingBaseline) Read() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	if b.err != nil {
		return "", b.err
	}
	return b.text, nil
}

// Write implements outcome.BaselineWriter.
func (b *RecordingBaseline) Write(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, text)
	b.text = text
	return nil
}

// Reads returns how many times the baseline was read.
func (b *RecordingBaseline) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

// Writes returns every text written, in order.
func (b *RecordingBaseline) Writes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.writes))
	copy(out, b.writes)
	return out
}
