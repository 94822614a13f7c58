package story

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go/v3"

	"fable/pkg/schema"
	"fable/pkg/utils"
)

func (p *Pipeline) generateStory(ctx context.Context, quiz schema.QuizInput) (string, error) {
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(2000),
		Temperature:         openai.Float(0.8),
	}
	out, err := p.inf.Infer(ctx, params, storySystemPrompt, buildStoryPrompt(quiz))
	if err != nil {
		return "", &GenerationError{Capability: "story", Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &GenerationError{Capability: "story", Err: fmt.Errorf("empty story text")}
	}
	return out, nil
}

// extractCharacters asks the model for the story's secondary characters and
// parses the reply strictly. Results come back capped and in descending
// importance order.
func (p *Pipeline) extractCharacters(ctx context.Context, storyText, mainCharacter string) ([]schema.SecondaryCharacter, error) {
	user := buildExtractPrompt(storyText, mainCharacter)

	budget := int64(1024)
	if tokens, err := utils.NumTokensFromMessages(extractSystemPrompt + user); err == nil {
		p.log.Debug("extraction prompt sized", "tokens", tokens)
		budget = max(budget, int64(tokens)/2)
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(budget),
		Temperature:         openai.Float(0.3),
		ResponseFormat:      schema.ExtractionResponseFormat(),
	}
	out, err := p.inf.Infer(ctx, params, extractSystemPrompt, user)
	if err != nil {
		return nil, &GenerationError{Capability: "extraction", Err: err}
	}

	chars, err := parseExtractedCharacters(out)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chars, func(i, j int) bool {
		return chars[i].Importance > chars[j].Importance
	})
	if len(chars) > p.opts.MaxSecondaryCharacters {
		chars = chars[:p.opts.MaxSecondaryCharacters]
	}
	return chars, nil
}

// parseExtractedCharacters accepts either the structured-outputs envelope
// {"characters":[...]} or a bare JSON array. Anything else is a ParseError.
func parseExtractedCharacters(out string) ([]schema.SecondaryCharacter, error) {
	out = utils.CleanJSON(out)
	if strings.HasPrefix(out, "[") {
		var chars []schema.SecondaryCharacter
		if err := json.Unmarshal([]byte(out), &chars); err != nil {
			return nil, &ParseError{Raw: out, Err: err}
		}
		return chars, nil
	}

	var envelope schema.ExtractedCharacters
	if err := json.Unmarshal([]byte(out), &envelope); err != nil {
		return nil, &ParseError{Raw: out, Err: err}
	}
	return envelope.Characters, nil
}

func (p *Pipeline) generateMainProfile(ctx context.Context, quiz schema.QuizInput) (string, error) {
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(1024),
		Temperature:         openai.Float(0.7),
	}
	out, err := p.inf.Infer(ctx, params, profileSystemPrompt, buildMainProfilePrompt(quiz))
	if err != nil {
		return "", &GenerationError{Capability: "profile", Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &GenerationError{Capability: "profile", Err: fmt.Errorf("empty profile text")}
	}
	return out, nil
}

func (p *Pipeline) generateSecondaryProfile(ctx context.Context, char schema.SecondaryCharacter, storyText string, quiz schema.QuizInput) (string, error) {
	user := buildSecondaryProfilePrompt(char, storyText, quiz)

	budget := int64(1024)
	if tokens, err := utils.NumTokensFromMessages(profileSystemPrompt + user); err == nil {
		budget = max(budget, int64(tokens)/2)
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(budget),
		Temperature:         openai.Float(0.7),
	}
	out, err := p.inf.Infer(ctx, params, profileSystemPrompt, user)
	if err != nil {
		return "", &GenerationError{Capability: "profile", Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &GenerationError{Capability: "profile", Err: fmt.Errorf("empty profile text")}
	}
	return out, nil
}
