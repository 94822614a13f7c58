package inference

import (
	"cmp"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// GeminiInferencer implements Inferencer and Painter on Google's genai SDK.
type GeminiInferencer struct {
	client     *genai.Client
	apiKey     string
	model      string
	imageModel string
}

func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client:     client,
		apiKey:     apiKey,
		model:      model,
		imageModel: "imagen-3.0-generate-002",
	}, nil
}

func (o *GeminiInferencer) ChangeConfig(config *genai.ClientConfig) {
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return
	}
	o.client = client
}

func (o *GeminiInferencer) SetImageModel(model string) {
	o.imageModel = model
}

// Infer sends text to Gemini. Only the model and token budget are taken
// from params; message construction is handled here.
func (o *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleModel),
		MaxOutputTokens:   int32(cmp.Or(params.MaxCompletionTokens.Value, 4096)),
	}

	result, err := o.client.Models.GenerateContent(
		ctx,
		cmp.Or(params.Model, o.model),
		genai.Text(user),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return result.Text(), nil
}

// Paint renders one illustration via Imagen and returns it base64-encoded.
func (o *GeminiInferencer) Paint(ctx context.Context, prompt string, opts ImageOptions) (string, error) {
	config := &genai.GenerateImagesConfig{NumberOfImages: 1}

	result, err := o.client.Models.GenerateImages(
		ctx,
		cmp.Or(opts.Model, o.imageModel),
		prompt,
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	if len(result.GeneratedImages) == 0 || result.GeneratedImages[0].Image == nil {
		return "", errors.New("no image data returned")
	}

	return base64.StdEncoding.EncodeToString(result.GeneratedImages[0].Image.ImageBytes), nil
}
