package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"fable/pkg/inference"
	"fable/pkg/server"
	"fable/pkg/story"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	openAI := inference.NewOpenAIInferencer(apiKey, model)
	if apiKey == "" {
		openAI.ChangeBaseURL("http://localhost:1234/v1")
		openAI.SetModel("")
	}

	var inf inference.Inferencer = openAI
	var painter inference.Painter = openAI

	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		gemini, err := inference.NewGeminiInferencer(geminiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal("failed to create gemini client", "error", err)
		}
		inf = gemini
		painter = gemini
	}

	if grokKey := os.Getenv("GROK_API_KEY"); grokKey != "" {
		// Grok only covers text; images stay on the current painter.
		inf = inference.NewGrokInferencer(grokKey, os.Getenv("GROK_MODEL"))
	}

	opts := story.DefaultOptions()
	if os.Getenv("FABLE_FAST_MODE") == "true" {
		opts = story.FastOptions()
		log.Info("fast mode enabled", "pages", opts.PageCount, "characters", opts.MaxSecondaryCharacters)
	}
	if size := os.Getenv("OPENAI_IMAGE_SIZE"); size != "" {
		opts.ImageSize = size
	}
	if v := os.Getenv("IMAGE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.ImageConcurrency = n
		}
	}

	pipeline := story.New(inf, painter, opts)

	srv := server.NewServer(ctx, pipeline)
	srv.Echo.Logger.SetLevel(gommon.INFO)
	srv.ArchiveDir = os.Getenv("FABLE_ARCHIVE_DIR")

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatal(err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
	}
	<-finishedShutDown
}
