package schema

// EventType tags a ProgressEvent. A stream carries any number of
// EventProgress entries followed by exactly one EventComplete or EventError.
type EventType string

const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// SubProgress reports fan-out completion within a single stage.
type SubProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// ProgressEvent is the wire shape pushed to the client while a pipeline
// run is in flight. Fields are populated according to Type: progress
// events carry Stage/Message/Step and optionally Progress, complete
// events carry Data, error events carry Error.
type ProgressEvent struct {
	Type       EventType    `json:"type"`
	Stage      string       `json:"stage,omitempty"`
	Message    string       `json:"message,omitempty"`
	Step       int          `json:"step,omitempty"`
	TotalSteps int          `json:"totalSteps,omitempty"`
	Progress   *SubProgress `json:"progress,omitempty"`
	Data       *StoryResult `json:"data,omitempty"`
	Error      string       `json:"error,omitempty"`
}
