package story

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"fable/pkg/schema"
)

// collectSink records every emitted event in order.
type collectSink struct {
	mu     sync.Mutex
	events []schema.ProgressEvent
}

func (s *collectSink) Emit(event schema.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *collectSink) byType(t schema.EventType) []schema.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schema.ProgressEvent
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func quizFixture() schema.QuizInput {
	return schema.QuizInput{
		ChildName:      "Alice",
		ChildAge:       "5 years",
		ChildTraits:    []string{"Brave", "Kind"},
		FavoriteThings: []string{"Animals"},
		StoryType:      "everyday-adventure",
	}
}

func happyInferencer() *fakeInferencer {
	return &fakeInferencer{
		storyOut: storyWithParagraphs(10),
		extractOut: `{"characters":[
			{"name":"Oliver","role":"wise owl","importance":8},
			{"name":"Pip","role":"lost rabbit","importance":5},
			{"name":"Daisy","role":"gentle deer","importance":3}
		]}`,
		mainProfileOut: "Alice has curly red hair and a yellow raincoat.",
		secondaryFn: func(user string) (string, error) {
			for _, name := range []string{"Oliver", "Pip", "Daisy"} {
				if strings.Contains(user, "- Name: "+name) {
					return "Profile of " + name, nil
				}
			}
			return "", errors.New("unknown character")
		},
	}
}

func newTestPipeline(inf *fakeInferencer, painter *countingPainter) *Pipeline {
	return New(inf, painter, Options{
		MaxSecondaryCharacters: 3,
		PageCount:              10,
		ImageConcurrency:       4,
		ImageSize:              "768x768",
	})
}

func TestPipelineEndToEnd(t *testing.T) {
	painter := &countingPainter{}
	pipeline := newTestPipeline(happyInferencer(), painter)
	sink := &collectSink{}

	result, err := pipeline.Run(context.Background(), quizFixture(), sink)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Pages, 10)
	for i, page := range result.Pages {
		require.NotEmpty(t, page.Text, "page %d text", i)
		require.NotEmpty(t, page.ImageBase64, "page %d image", i)
	}
	require.Equal(t, storyWithParagraphs(10), result.StoryText)
	require.Contains(t, result.CharacterProfile, "curly red hair")
	require.Contains(t, result.CharacterProfile, "Profile of Oliver")
	require.Contains(t, result.CharacterProfile, "Profile of Pip")
	require.Contains(t, result.CharacterProfile, "Profile of Daisy")

	// Stage progress events arrive in order 1..5.
	var steps []int
	for _, ev := range sink.byType(schema.EventProgress) {
		steps = append(steps, ev.Step)
	}
	require.GreaterOrEqual(t, len(steps), 5)
	for i := 1; i < len(steps); i++ {
		require.GreaterOrEqual(t, steps[i], steps[i-1], "steps must be non-decreasing")
	}
	require.Equal(t, []int{1, 2, 3, 4}, steps[:4])

	// Image sub-progress never decreases and ends at 10/10.
	var current int
	for _, ev := range sink.byType(schema.EventProgress) {
		if ev.Progress == nil {
			continue
		}
		require.Equal(t, 10, ev.Progress.Total)
		require.Greater(t, ev.Progress.Current, current)
		current = ev.Progress.Current
	}
	require.Equal(t, 10, current)

	// Exactly one terminal event, and it is a complete.
	completes := sink.byType(schema.EventComplete)
	require.Len(t, completes, 1)
	require.Equal(t, result, completes[0].Data)
	require.Empty(t, sink.byType(schema.EventError))

	// Worker pool bound held.
	require.LessOrEqual(t, painter.highWater, 4)
}

func TestPipelineStoryFailureIsFatal(t *testing.T) {
	inf := happyInferencer()
	inf.storyOut = ""
	inf.storyErr = errors.New("model unavailable")
	pipeline := newTestPipeline(inf, &countingPainter{})
	sink := &collectSink{}

	result, err := pipeline.Run(context.Background(), quizFixture(), sink)
	require.Nil(t, result)

	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, StageStory, perr.Stage)
	require.Contains(t, err.Error(), "Story generation failed")

	errs := sink.byType(schema.EventError)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error, "Story generation failed")
	require.Empty(t, sink.byType(schema.EventComplete))
}

func TestPipelineMainProfileFailureIsFatal(t *testing.T) {
	inf := happyInferencer()
	inf.mainProfileOut = ""
	inf.mainProfileErr = errors.New("model unavailable")
	pipeline := newTestPipeline(inf, &countingPainter{})
	sink := &collectSink{}

	result, err := pipeline.Run(context.Background(), quizFixture(), sink)
	require.Nil(t, result)

	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, StageMainProfile, perr.Stage)
	require.Contains(t, err.Error(), "Character profile generation failed")
	require.Empty(t, sink.byType(schema.EventComplete))
}

func TestPipelineExtractionFailureIsIsolated(t *testing.T) {
	inf := happyInferencer()
	inf.extractOut = ""
	inf.extractErr = errors.New("rate limited")
	pipeline := newTestPipeline(inf, &countingPainter{})
	sink := &collectSink{}

	result, err := pipeline.Run(context.Background(), quizFixture(), sink)
	require.NoError(t, err)
	require.Len(t, result.Pages, 10)

	// No secondary section at all, but the book still completes.
	require.NotContains(t, result.CharacterProfile, "SECONDARY CHARACTERS")
	require.Len(t, sink.byType(schema.EventComplete), 1)
}

func TestPipelineMalformedExtractionIsIsolated(t *testing.T) {
	inf := happyInferencer()
	inf.extractOut = "I could not find any characters, sorry!"
	pipeline := newTestPipeline(inf, &countingPainter{})

	result, err := pipeline.Run(context.Background(), quizFixture(), &collectSink{})
	require.NoError(t, err)
	require.NotContains(t, result.CharacterProfile, "SECONDARY CHARACTERS")
}

func TestPipelinePartialSecondaryProfileFailure(t *testing.T) {
	inf := happyInferencer()
	inf.secondaryFn = func(user string) (string, error) {
		if strings.Contains(user, "- Name: Pip") {
			return "", errors.New("timeout")
		}
		for _, name := range []string{"Oliver", "Daisy"} {
			if strings.Contains(user, "- Name: "+name) {
				return "Profile of " + name, nil
			}
		}
		return "", errors.New("unknown character")
	}
	pipeline := newTestPipeline(inf, &countingPainter{})

	result, err := pipeline.Run(context.Background(), quizFixture(), &collectSink{})
	require.NoError(t, err)

	require.Contains(t, result.CharacterProfile, "Profile of Oliver")
	require.Contains(t, result.CharacterProfile, "Profile of Daisy")
	require.NotContains(t, result.CharacterProfile, "Profile of Pip")
}

func TestPipelineImageFailureIsFatal(t *testing.T) {
	painter := &countingPainter{
		fn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Paragraph 3 ") {
				return "", errors.New("content filter")
			}
			return "img", nil
		},
	}
	pipeline := newTestPipeline(happyInferencer(), painter)
	sink := &collectSink{}

	result, err := pipeline.Run(context.Background(), quizFixture(), sink)
	require.Nil(t, result)

	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, StageImages, perr.Stage)
	require.Equal(t, 3, perr.Page)

	errs := sink.byType(schema.EventError)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error, "Image generation failed on page 3")
	require.Empty(t, sink.byType(schema.EventComplete))
}

func TestPipelineStreamingMatchesNonStreaming(t *testing.T) {
	streaming := newTestPipeline(happyInferencer(), &countingPainter{})
	fallback := newTestPipeline(happyInferencer(), &countingPainter{})

	sink := &collectSink{}
	streamed, err := streaming.Run(context.Background(), quizFixture(), sink)
	require.NoError(t, err)

	direct, err := fallback.Run(context.Background(), quizFixture(), NopSink{})
	require.NoError(t, err)

	// Deterministic fakes: both modes must produce identical payloads.
	require.Equal(t, streamed, direct)
	require.Equal(t, streamed, sink.byType(schema.EventComplete)[0].Data)
}

func TestPipelineFastProfile(t *testing.T) {
	inf := happyInferencer()
	inf.storyOut = storyWithParagraphs(10)
	pipeline := New(inf, &countingPainter{}, FastOptions())

	result, err := pipeline.Run(context.Background(), quizFixture(), NopSink{})
	require.NoError(t, err)
	require.Len(t, result.Pages, 5)
	// Fast profile caps the supporting cast at two.
	require.Contains(t, result.CharacterProfile, "Profile of Oliver")
	require.Contains(t, result.CharacterProfile, "Profile of Pip")
	require.NotContains(t, result.CharacterProfile, "Profile of Daisy")
}

func TestPipelineShortStoryIsPadded(t *testing.T) {
	inf := happyInferencer()
	inf.storyOut = storyWithParagraphs(4)
	painter := &countingPainter{}
	pipeline := newTestPipeline(inf, painter)

	result, err := pipeline.Run(context.Background(), quizFixture(), NopSink{})
	require.NoError(t, err)
	require.Len(t, result.Pages, 10)

	// Padded pages still get an illustration from the fallback scene.
	for i := 4; i < 10; i++ {
		require.Empty(t, result.Pages[i].Text)
		require.NotEmpty(t, result.Pages[i].ImageBase64)
	}
	require.Equal(t, 10, painter.calls)
}
