package tracer

import (
	"context"
	"sync"
)

// RecordedSpan is a finished span captured by Recorder.
type RecordedSpan struct {
	Name       string
	Attributes map[string]any
	Events     []string
	Err        error
}

// Recorder keeps finished spans in memory. Tests use it to assert what the
// engine traced without an OpenTelemetry SDK.
type Recorder struct {
	mu    sync.Mutex
	spans []RecordedSpan
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	s := &recordedSpan{rec: r, data: RecordedSpan{Name: name, Attributes: map[string]any{}}}
	s.SetAttributes(attrs...)
	return ctx, s
}

// Spans returns a copy of the finished spans in completion order.
func (r *Recorder) Spans() []RecordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedSpan, len(r.spans))
	copy(out, r.spans)
	return out
}

// Named returns finished spans with the given name.
func (r *Recorder) Named(name string) []RecordedSpan {
	var out []RecordedSpan
	for _, s := range r.Spans() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

type recordedSpan struct {
	rec  *Recorder
	mu   sync.Mutex
	data RecordedSpan
}

func (s *recordedSpan) End(err error) {
	s.mu.Lock()
	s.data.Err = err
	data := s.data
	s.mu.Unlock()

	s.rec.mu.Lock()
	s.rec.spans = append(s.rec.spans, data)
	s.rec.mu.Unlock()
}

func (s *recordedSpan) SetAttributes(attrs ...Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range attrs {
		s.data.Attributes[a.Key] = a.Value
	}
}

func (s *recordedSpan) AddEvent(name string, _ ...Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Events = append(s.data.Events, name)
}

var (
	_ Tracer = (*Recorder)(nil)
	_ Span   = (*recordedSpan)(nil)
)
