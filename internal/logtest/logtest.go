// Package logtest provides a slog handler that records emitted records so
// tests can assert on the exact structured payload of recovered-condition
// events.
package logtest

import (
	"context"
	"log/slog"
	"sync"
)

// Event is a single recorded log record: the message (the event identifier)
// and all attributes, including ones bound via Logger.With.
type Event struct {
	Message string
	Attrs   map[string]any
}

type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Logger returns a logger that records every emitted record.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(&handler{recorder: r})
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Find returns the first recorded event with the given message, or nil.
func (r *Recorder) Find(message string) *Event {
	for _, event := range r.Events() {
		if event.Message == message {
			return &event
		}
	}
	return nil
}

func (r *Recorder) record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type handler struct {
	recorder *Recorder
	attrs    []slog.Attr
}

func (h *handler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *handler) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any, record.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.recorder.record(Event{Message: record.Message, Attrs: attrs})
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &handler{recorder: h.recorder, attrs: combined}
}

func (h *handler) WithGroup(string) slog.Handler {
	return h
}
