package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"charforge/pkg/config"
)

func TestServerOptionsUseConfiguredBaseURLs(t *testing.T) {
	var hfHits, elHits atomic.Int32
	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hfHits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer hf.Close()
	el := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		elHits.Add(1)
		if !strings.HasPrefix(r.URL.Path, "/v1/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3"))
	}))
	defer el.Close()

	cfg := &config.Config{
		HuggingFace:     config.ProviderConfig{APIKey: "hf-key", BaseURL: hf.URL},
		ElevenLabs:      config.ProviderConfig{APIKey: "el-key", BaseURL: el.URL},
		Grok:            config.ProviderConfig{APIKey: "grok-key", BaseURL: "http://127.0.0.1:1/v1"},
		MaxTextChars:    500,
		ProviderTimeout: 5 * time.Second,
	}
	opts, err := serverOptions(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Inferencer == nil || opts.MaxSampleChars != 500 {
		t.Fatalf("opts = %+v", opts)
	}

	ctx := context.Background()
	if _, err := opts.Images.TextToImage(ctx, "knight", ""); err != nil {
		t.Fatalf("TextToImage: %v", err)
	}
	if _, err := opts.Music.ComposeMusic(ctx, "calm", 10000); err != nil {
		t.Fatalf("ComposeMusic: %v", err)
	}
	if _, err := opts.Voices.DesignVoice(ctx, "a voice", "hello"); err != nil {
		t.Fatalf("DesignVoice: %v", err)
	}
	if hfHits.Load() != 1 || elHits.Load() != 2 {
		t.Errorf("hits: huggingface %d, elevenlabs %d", hfHits.Load(), elHits.Load())
	}
}

func TestServerOptionsWithoutMediaKeys(t *testing.T) {
	cfg := &config.Config{OpenAI: config.ProviderConfig{Model: config.DefaultOpenAIModel}}
	opts, err := serverOptions(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Images != nil || opts.Voices != nil || opts.Music != nil {
		t.Errorf("media providers must stay nil without keys: %+v", opts)
	}
	if opts.Inferencer == nil {
		t.Error("expected the local OpenAI-compatible inferencer")
	}
}
