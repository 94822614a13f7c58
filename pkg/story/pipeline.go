// Package story turns validated quiz answers into a complete illustrated
// storybook: prose, per-character visual profiles, and one image per page,
// with live progress reporting for streaming clients.
package story

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"fable/pkg/inference"
	"fable/pkg/schema"
)

// Stage identifiers as they appear in progress events.
const (
	StageStory             = "story"
	StageCharacters        = "characters"
	StageMainProfile       = "profiles-main"
	StageSecondaryProfiles = "profiles-secondary"
	StageImages            = "images"
)

const totalSteps = 5

// Options configures one Pipeline. The zero value is not usable; start
// from DefaultOptions or FastOptions.
type Options struct {
	// MaxSecondaryCharacters caps how many extracted characters get
	// profiles and design-document entries.
	MaxSecondaryCharacters int
	// PageCount is the exact number of pages every book gets.
	PageCount int
	// ImageConcurrency bounds in-flight image calls. Clamped to PageCount.
	ImageConcurrency int
	// ImageSize is passed through to the painter, e.g. "768x768".
	ImageSize string
	Logger    *log.Logger
}

// DefaultOptions is the full production profile.
func DefaultOptions() Options {
	return Options{
		MaxSecondaryCharacters: 3,
		PageCount:              10,
		ImageConcurrency:       4,
		ImageSize:              "768x768",
	}
}

// FastOptions trades fidelity for turnaround during development: fewer
// characters and fewer pages, same pipeline.
func FastOptions() Options {
	opts := DefaultOptions()
	opts.MaxSecondaryCharacters = 2
	opts.PageCount = 5
	return opts
}

// Pipeline orchestrates the five generation stages. One Pipeline is safe
// for concurrent Run calls; all per-run state lives on the stack.
type Pipeline struct {
	inf     inference.Inferencer
	painter inference.Painter
	opts    Options
	log     *log.Logger
}

func New(inf inference.Inferencer, painter inference.Painter, opts Options) *Pipeline {
	if opts.MaxSecondaryCharacters < 0 {
		opts.MaxSecondaryCharacters = 0
	}
	if opts.PageCount < 1 {
		opts.PageCount = DefaultOptions().PageCount
	}
	if opts.ImageConcurrency < 1 {
		opts.ImageConcurrency = DefaultOptions().ImageConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{inf: inf, painter: painter, opts: opts, log: logger}
}

// Run executes the full pipeline for one quiz submission. Progress,
// completion and failure are mirrored on the sink, so streaming callers
// can ignore the return values and non-streaming callers can pass NopSink.
// Each stage is attempted exactly once; there is no retry loop here.
func (p *Pipeline) Run(ctx context.Context, quiz schema.QuizInput, sink Sink) (*schema.StoryResult, error) {
	start := time.Now()
	runID := ksuid.New().String()
	logger := p.log.With("run", runID, "child", quiz.ChildName)

	fail := func(err *PipelineError) (*schema.StoryResult, error) {
		logger.Error("pipeline failed", "stage", err.Stage, "error", err.Err)
		sink.Emit(schema.ProgressEvent{Type: schema.EventError, Error: err.Error()})
		return nil, err
	}
	progress := func(stage, message string, step int) {
		sink.Emit(schema.ProgressEvent{
			Type:       schema.EventProgress,
			Stage:      stage,
			Message:    message,
			Step:       step,
			TotalSteps: totalSteps,
		})
	}

	// Stage 1: story text. Fatal on failure.
	progress(StageStory, fmt.Sprintf("Writing %s's personalized adventure...", quiz.ChildName), 1)
	storyText, err := p.generateStory(ctx, quiz)
	if err != nil {
		return fail(&PipelineError{Stage: StageStory, Err: err})
	}
	logger.Info("story generated", "chars", len(storyText))

	// Stage 2: secondary characters. Best-effort; an empty set is fine.
	progress(StageCharacters, "Meeting the characters...", 2)
	characters, err := p.extractCharacters(ctx, storyText, quiz.ChildName)
	if err != nil {
		logger.Warn("character extraction failed, continuing without secondary characters", "error", err)
		characters = nil
	} else {
		logger.Info("characters extracted", "count", len(characters))
	}

	// Stage 3: main character profile. Fatal on failure, since every
	// illustration depends on it.
	progress(StageMainProfile, fmt.Sprintf("Designing %s...", quiz.ChildName), 3)
	mainProfile, err := p.generateMainProfile(ctx, quiz)
	if err != nil {
		return fail(&PipelineError{Stage: StageMainProfile, Err: err})
	}

	// Stage 4: secondary profiles, in parallel. Each failure only drops
	// that character from the design document.
	var secondaries []schema.CharacterProfile
	if len(characters) > 0 {
		progress(StageSecondaryProfiles, fmt.Sprintf("Creating supporting cast (%d characters)...", len(characters)), 4)
		secondaries = p.profileSecondaries(ctx, characters, storyText, quiz, logger)
	}

	designDocument := ComposeDesignDocument(mainProfile, secondaries)
	pagesText := SegmentPages(storyText, p.opts.PageCount)

	prompts := make([]string, len(pagesText))
	for i, text := range pagesText {
		prompts[i] = buildImagePrompt(designDocument, text, quiz)
	}

	// Stage 5: one image per page through the bounded pool. Fatal on any
	// single page failure; partial images are discarded.
	imageOpts := inference.ImageOptions{Size: p.opts.ImageSize}
	images, err := paintAll(ctx, p.painter, prompts, p.opts.ImageConcurrency, imageOpts, func(completed, total int) {
		sink.Emit(schema.ProgressEvent{
			Type:       schema.EventProgress,
			Stage:      StageImages,
			Message:    "Generating illustrations...",
			Step:       5,
			TotalSteps: totalSteps,
			Progress:   &schema.SubProgress{Current: completed, Total: total},
		})
	})
	if err != nil {
		perr, ok := err.(*PipelineError)
		if !ok {
			perr = &PipelineError{Stage: StageImages, Err: err}
		}
		return fail(perr)
	}

	pages := make([]schema.Page, len(pagesText))
	for i, text := range pagesText {
		pages[i] = schema.Page{Text: text, ImageBase64: images[i]}
	}

	result := &schema.StoryResult{
		StoryText:        storyText,
		Pages:            pages,
		CharacterProfile: designDocument,
	}
	logger.Info("pipeline complete",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"secondary", len(secondaries),
		"pages", len(pages))

	sink.Emit(schema.ProgressEvent{Type: schema.EventComplete, Data: result})
	return result, nil
}

// profileSecondaries fans out one profile call per character and keeps only
// the ones that succeed, matched back to characters by name.
func (p *Pipeline) profileSecondaries(ctx context.Context, characters []schema.SecondaryCharacter, storyText string, quiz schema.QuizInput, logger *log.Logger) []schema.CharacterProfile {
	profiles := make([]*schema.CharacterProfile, len(characters))

	var wg sync.WaitGroup
	for i, char := range characters {
		wg.Go(func() {
			text, err := p.generateSecondaryProfile(ctx, char, storyText, quiz)
			if err != nil {
				logger.Warn("secondary profile failed", "name", char.Name, "error", err)
				return
			}
			profiles[i] = &schema.CharacterProfile{Name: char.Name, Profile: text}
		})
	}
	wg.Wait()

	out := make([]schema.CharacterProfile, 0, len(characters))
	for _, profile := range profiles {
		if profile != nil {
			out = append(out, *profile)
		}
	}
	return out
}
