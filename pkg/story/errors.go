package story

import "fmt"

// GenerationError wraps a remote capability failure.
type GenerationError struct {
	Capability string // "story", "extraction", "profile", "image"
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Capability, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError reports model output that did not match the expected shape.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PipelineError is the terminal error for a pipeline run. Its message is
// suitable for direct display to the caller.
type PipelineError struct {
	Stage string
	Page  int // 1-based page index, set only for image-stage failures
	Err   error
}

func (e *PipelineError) Error() string {
	switch e.Stage {
	case StageStory:
		return fmt.Sprintf("Story generation failed: %v", e.Err)
	case StageMainProfile:
		return fmt.Sprintf("Character profile generation failed: %v", e.Err)
	case StageImages:
		if e.Page > 0 {
			return fmt.Sprintf("Image generation failed on page %d: %v", e.Page, e.Err)
		}
		return fmt.Sprintf("Image generation failed: %v", e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
