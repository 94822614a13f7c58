package story

import "fable/pkg/schema"

// Sink receives progress events from a running pipeline. Emit is
// fire-and-forget: implementations swallow their own transport errors and
// must not panic into the orchestrator.
type Sink interface {
	Emit(event schema.ProgressEvent)
}

// NopSink discards every event. Non-streaming callers use it and read the
// pipeline's return values instead.
type NopSink struct{}

func (NopSink) Emit(schema.ProgressEvent) {}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event schema.ProgressEvent)

func (f SinkFunc) Emit(event schema.ProgressEvent) { f(event) }
