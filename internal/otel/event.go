// Package otel records what the layout engine does frame by frame.
//
// Events are typed structs serialized as JSONL lines. The Logger writes them
// from a background drain goroutine so the frame loop never blocks on disk.
// An optional RingBuffer keeps the most recent events in memory for the debug
// overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Frame loop
	KindFrameTick   EventKind = "frame.tick"
	KindAnimBatch   EventKind = "anim.batch"
	KindAnimApplied EventKind = "anim.applied"

	// Input
	KindGestureClaim       EventKind = "gesture.claim"
	KindGesturePointerLost EventKind = "gesture.pointer_lost"
	KindEmptySpaceClick    EventKind = "gesture.empty_space"
	KindSwipedOut          EventKind = "gesture.swiped_out"

	// Dismiss all
	KindDismissStart EventKind = "dismiss.start"
	KindDismissDone  EventKind = "dismiss.done"
	KindDismissError EventKind = "dismiss.error"

	// Scroll
	KindScrollEscape EventKind = "scroll.escape"

	// Process
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events, only emitted with STACKVIEW_TRACE set
	KindMsgReceived EventKind = "trace.msg_received"
	KindMsgHandled  EventKind = "trace.msg_handled"
)

// Event is the universal record. Every field except Kind and Time is
// optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // component: "layout", "gesture", "ui", "main"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for entire app run
	Frame     uint64         `json:"frame,omitempty"`      // frame counter at emission
	Item      string         `json:"item,omitempty"`       // item id the event concerns
	Dur       time.Duration  `json:"-"`                    // not serialized directly
	DurMs     float64        `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Value     float64        `json:"value,omitempty"` // velocity, offset or similar scalar
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
