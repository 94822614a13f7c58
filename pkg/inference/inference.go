package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Inferencer defines an interface for running text model inference.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
}

// ImageOptions configures a single image generation call.
type ImageOptions struct {
	// Size is a "WxH" string, e.g. "768x768".
	Size string
	// Model overrides the painter's default image model.
	Model string
}

// Painter defines an interface for rendering one illustration from a
// prompt. Implementations return the image as base64-encoded bytes.
type Painter interface {
	Paint(ctx context.Context, prompt string, opts ImageOptions) (string, error)
}
