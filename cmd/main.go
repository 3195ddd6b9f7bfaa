package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charm "github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/log"

	"charforge/pkg/config"
	"charforge/pkg/inference"
	"charforge/pkg/provider/elevenlabs"
	"charforge/pkg/provider/huggingface"
	"charforge/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	cfg, err := config.Load()
	if err != nil {
		charm.Fatal("invalid configuration", "error", err)
	}
	setLogLevel(cfg.LogLevel)

	opts, err := serverOptions(ctx, cfg)
	if err != nil {
		charm.Fatal("failed to create providers", "error", err)
	}

	srv := server.NewServer(opts)
	if cfg.LogLevel == "debug" {
		srv.Echo.Logger.SetLevel(log.DEBUG)
	} else {
		srv.Echo.Logger.SetLevel(log.INFO)
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			charm.Error("shutdown failed", "error", err)
		}
		close(finishedShutDown)
	}()

	if err := srv.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		charm.Error("server stopped", "error", err)
		done()
		os.Exit(1)
	}
	<-finishedShutDown
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		charm.SetLevel(charm.DebugLevel)
	case "warn":
		charm.SetLevel(charm.WarnLevel)
	case "error":
		charm.SetLevel(charm.ErrorLevel)
	default:
		charm.SetLevel(charm.InfoLevel)
	}
}

// serverOptions builds every provider the config has credentials for. Media
// providers without a key stay nil so their endpoints report the missing key.
func serverOptions(ctx context.Context, cfg *config.Config) (server.Options, error) {
	opts := server.Options{
		MaxSampleChars: cfg.MaxTextChars,
		CORSOrigins:    cfg.CORSOrigins(),
	}

	inf, err := newInferencer(ctx, cfg)
	if err != nil {
		return opts, err
	}
	opts.Inferencer = inf

	if cfg.HuggingFace.APIKey != "" {
		hfOpts := []huggingface.Option{
			huggingface.WithModel(cfg.HuggingFace.Model),
			huggingface.WithTimeout(cfg.ProviderTimeout),
		}
		if cfg.HuggingFace.BaseURL != "" {
			hfOpts = append(hfOpts, huggingface.WithBaseURL(cfg.HuggingFace.BaseURL))
		}
		images, err := huggingface.New(cfg.HuggingFace.APIKey, hfOpts...)
		if err != nil {
			return opts, err
		}
		opts.Images = images
	} else {
		charm.Warn("HF_API_KEY not set; image generation disabled")
	}

	if cfg.ElevenLabs.APIKey != "" {
		elOpts := []elevenlabs.Option{
			elevenlabs.WithVoiceModel(cfg.ElevenLabs.Model),
			elevenlabs.WithTimeout(cfg.ProviderTimeout),
		}
		if cfg.ElevenLabs.BaseURL != "" {
			elOpts = append(elOpts, elevenlabs.WithBaseURL(cfg.ElevenLabs.BaseURL))
		}
		voices, err := elevenlabs.New(cfg.ElevenLabs.APIKey, elOpts...)
		if err != nil {
			return opts, err
		}
		opts.Voices = voices
		opts.Music = voices
	} else {
		charm.Warn("ELEVENLABS_API_KEY not set; voice and music generation disabled")
	}

	return opts, nil
}

// newInferencer picks the first text-analysis provider with a key: Grok,
// Moonshot, Gemini, then OpenAI. Without an OpenAI key the client targets a
// local OpenAI-compatible server.
func newInferencer(ctx context.Context, cfg *config.Config) (inference.Inferencer, error) {
	var inf *inference.OpenAIInferencer
	switch {
	case cfg.Grok.APIKey != "":
		inf = inference.NewGrokInferencer(cfg.Grok.APIKey, cfg.Grok.Model)
		if cfg.Grok.BaseURL != "" {
			inf.ChangeBaseURL(cfg.Grok.BaseURL)
		}
	case cfg.Moonshot.APIKey != "":
		inf = inference.NewMoonshotInferencer(cfg.Moonshot.APIKey, cfg.Moonshot.Model)
		if cfg.Moonshot.BaseURL != "" {
			inf.ChangeBaseURL(cfg.Moonshot.BaseURL)
		}
	case cfg.Gemini.APIKey != "":
		gemini, err := inference.NewGeminiInferencer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
		if err != nil {
			return nil, err
		}
		gemini.SetTimeout(cfg.ProviderTimeout)
		return gemini, nil
	default:
		inf = inference.NewOpenAIInferencer(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		switch {
		case cfg.OpenAI.BaseURL != "":
			inf.ChangeBaseURL(cfg.OpenAI.BaseURL)
		case cfg.OpenAI.APIKey == "":
			charm.Warn("OPENAI_API_KEY not set; using local model server", "url", config.LocalOpenAIBaseURL)
			inf.ChangeBaseURL(config.LocalOpenAIBaseURL)
			inf.SetModel("")
		}
	}
	inf.SetTimeout(cfg.ProviderTimeout)
	return inf, nil
}
