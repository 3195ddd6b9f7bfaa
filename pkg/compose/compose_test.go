package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3"

	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

type stubInferencer struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubInferencer) Infer(_ context.Context, _ *openai.ChatCompletionNewParams, system, user string) (string, error) {
	s.calls++
	s.system, s.user = system, user
	return s.reply, s.err
}

func testProfile() schema.CharacterProfile {
	return schema.CharacterProfile{
		SchemaVersion: 1,
		SourceText:    "A grim old warrior who has seen too many wars",
		Gender:        "male",
		Emotion:       "tragic",
		Language:      "english",
		Accent:        "british",
		VisualSummary: "Scarred old warrior in battered plate armor",
		StyleTags:     []string{"oil painting", "dark fantasy"},
		VoiceStyle:    "deep and gravelly",
		MusicMood:     "dark orchestral",
	}
}

func TestChainFallsThrough(t *testing.T) {
	chain := Chain[string]{
		{Name: "broken", Run: func(context.Context) (string, bool, error) { return "", false, errors.New("boom") }},
		{Name: "empty", Run: func(context.Context) (string, bool, error) { return "", false, nil }},
		Static("last", func() string { return "ok" }),
	}
	v, src, err := chain.Run(context.Background())
	if err != nil || v != "ok" || src != "last" {
		t.Errorf("Run() = %q, %q, %v", v, src, err)
	}
}

func TestChainAllFail(t *testing.T) {
	boom := errors.New("boom")
	chain := Chain[int]{
		{Name: "a", Run: func(context.Context) (int, bool, error) { return 0, false, boom }},
	}
	if _, _, err := chain.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, _, err := (Chain[int]{}).Run(context.Background()); !errors.Is(err, ErrNoResult) {
		t.Errorf("empty chain err = %v, want ErrNoResult", err)
	}
}

func TestBuildVoiceDescription(t *testing.T) {
	got := BuildVoiceDescription(VoiceTraits{
		Gender:   "male",
		Tone:     "deep",
		Mood:     "sinister",
		Emotion:  "tragic",
		Accent:   "british",
		Language: "german",
	})
	want := "A mature male voice with deep, resonant timbre, dark and ominous with tragic undertones, British accent, speaking german. " + VoiceQualitySuffix
	if got != want {
		t.Errorf("BuildVoiceDescription() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildVoiceDescriptionTotal(t *testing.T) {
	inputs := []VoiceTraits{
		{},
		{Gender: "robot", Tone: "metallic", Mood: "bored", Emotion: "neutral", Accent: "none", Language: "default"},
		{Gender: "child", Language: "english"},
		{Gender: "female", Tone: "soft", Mood: "happy", Emotion: "playful", Accent: "american", Language: "spanish"},
	}
	for _, in := range inputs {
		got := BuildVoiceDescription(in)
		if !strings.HasSuffix(got, VoiceQualitySuffix) || len(got) <= len(VoiceQualitySuffix) {
			t.Errorf("BuildVoiceDescription(%+v) = %q", in, got)
		}
	}

	if got := BuildVoiceDescription(VoiceTraits{}); got != "A natural voice with neutral timbre. "+VoiceQualitySuffix {
		t.Errorf("empty traits = %q", got)
	}
	if got := BuildVoiceDescription(VoiceTraits{Accent: "none", Language: "english"}); strings.Contains(got, "accent") || strings.Contains(got, "speaking") {
		t.Errorf("accent/language clauses should be omitted: %q", got)
	}
}

func TestTraitsFromProfile(t *testing.T) {
	tr := TraitsFromProfile(testProfile())
	if tr.Tone != "deep" || tr.Gender != "male" || tr.Mood != "tragic" || tr.Accent != "british" {
		t.Errorf("TraitsFromProfile() = %+v", tr)
	}
	p := testProfile()
	p.VoiceStyle = "natural and clear"
	if TraitsFromProfile(p).Tone != "neutral" {
		t.Error("expected neutral tone without keywords")
	}
}

func TestFallbackImagePrompt(t *testing.T) {
	p := testProfile()
	if got := FallbackImagePrompt(p, IntentPortrait); got != "Scarred old warrior in battered plate armor, portrait, oil painting, dark fantasy" {
		t.Errorf("portrait = %q", got)
	}
	if got := FallbackImagePrompt(p, IntentFullBody); !strings.Contains(got, ", full-body") {
		t.Errorf("full body = %q", got)
	}
	if got := FallbackImagePrompt(p, IntentScene); !strings.Contains(got, ", scenic") {
		t.Errorf("scene = %q", got)
	}

	empty := schema.CharacterProfile{}
	if got := FallbackImagePrompt(empty, ParseIntent("")); got != "a character, portrait" {
		t.Errorf("empty profile = %q", got)
	}
}

func TestParseIntent(t *testing.T) {
	cases := map[string]Intent{"": IntentPortrait, "portrait": IntentPortrait, "full_body": IntentFullBody, "scene": IntentScene, "bogus": IntentPortrait}
	for in, want := range cases {
		if got := ParseIntent(in); got != want {
			t.Errorf("ParseIntent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildImagePromptUsesModel(t *testing.T) {
	inf := &stubInferencer{reply: `{"image_prompt":"weathered knight, candlelight","negative_prompt":"cartoon"}`}
	got := BuildImagePrompt(context.Background(), inf, testProfile(), ImageOptions{Intent: "scene"})

	if got.Prompt != "weathered knight, candlelight" || got.NegativePrompt != "cartoon" || got.Source != "model" {
		t.Errorf("BuildImagePrompt() = %+v", got)
	}
	if inf.calls != 1 {
		t.Errorf("expected one model call, got %d", inf.calls)
	}
	if !strings.Contains(inf.user, "A grim old warrior") || !strings.Contains(inf.user, "wide scenic shot") {
		t.Errorf("user message missing source text or composition: %s", inf.user)
	}
}

func TestBuildImagePromptLegacyKeyAndDefaultNegative(t *testing.T) {
	inf := &stubInferencer{reply: `{"prompt":"old knight"}`}
	got := BuildImagePrompt(context.Background(), inf, testProfile(), ImageOptions{})
	if got.Prompt != "old knight" || got.NegativePrompt != DefaultNegativePrompt {
		t.Errorf("BuildImagePrompt() = %+v", got)
	}
}

func TestBuildImagePromptFallback(t *testing.T) {
	tests := []struct {
		name string
		inf  *stubInferencer
	}{
		{"invalid json", &stubInferencer{reply: "Sure! Here's a prompt: knight"}},
		{"empty prompt", &stubInferencer{reply: `{"image_prompt":"   "}`}},
		{"wrong type", &stubInferencer{reply: `{"image_prompt":42}`}},
		{"provider error", &stubInferencer{err: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildImagePrompt(context.Background(), tt.inf, testProfile(), ImageOptions{Intent: "portrait"})
			if got.Source != "fallback" {
				t.Errorf("Source = %q, want fallback", got.Source)
			}
			if got.Prompt != FallbackImagePrompt(testProfile(), IntentPortrait) {
				t.Errorf("Prompt = %q", got.Prompt)
			}
			if got.NegativePrompt != DefaultNegativePrompt {
				t.Errorf("NegativePrompt = %q", got.NegativePrompt)
			}
		})
	}
}

func TestDraftVoiceDescription(t *testing.T) {
	inf := &stubInferencer{reply: `{"voice_description":"Studio-quality recording. An old man.","language":"german","sample_text":"Hear me."}`}
	d, err := DraftVoiceDescription(context.Background(), inf, testProfile())
	if err != nil {
		t.Fatalf("DraftVoiceDescription: %v", err)
	}
	if d.Description != "Studio-quality recording. An old man." || d.Language != "german" || d.SampleText != "Hear me." {
		t.Errorf("draft = %+v", d)
	}
	if !strings.Contains(inf.user, `"visual_summary"`) {
		t.Errorf("profile JSON missing from user message: %s", inf.user)
	}
}

func TestDraftVoiceDescriptionNoInternalFallback(t *testing.T) {
	inf := &stubInferencer{reply: "not json at all"}
	d, err := DraftVoiceDescription(context.Background(), inf, testProfile())
	if err != nil {
		t.Fatalf("unparseable reply must not be an error: %v", err)
	}
	if d.Description != "" || d.SampleText != "" {
		t.Errorf("expected empty draft, got %+v", d)
	}
	if d.Language != "english" {
		t.Errorf("language should default to the profile's, got %q", d.Language)
	}
}

func TestDraftVoiceDescriptionError(t *testing.T) {
	inf := &stubInferencer{err: errors.New("503")}
	if _, err := DraftVoiceDescription(context.Background(), inf, testProfile()); err == nil {
		t.Error("expected provider error to propagate")
	}
	if _, err := DraftVoiceDescription(context.Background(), nil, testProfile()); err == nil {
		t.Error("expected error without an inferencer")
	}
}

func TestSelectSampleText(t *testing.T) {
	long := strings.Repeat("The old road winds through the hills. ", 5)
	caller := strings.Repeat("I will guard this gate until dawn comes. ", 4)

	if got := SelectSampleText(`"`+long+`"`, caller, testProfile(), 1000); got != utils.SanitizeSample(long) {
		t.Errorf("expected model sample, got %q", got)
	}
	if got := SelectSampleText("too short", caller, testProfile(), 1000); got != utils.SanitizeSample(caller) {
		t.Errorf("expected caller text, got %q", got)
	}
	got := SelectSampleText("", "", testProfile(), 1000)
	if !strings.HasPrefix(got, "I am scarred old warrior") {
		t.Errorf("expected synthesized text from visual summary, got %q", got)
	}
}

func TestSelectSampleTextBounds(t *testing.T) {
	huge := strings.Repeat("x", 5000)
	profiles := []schema.CharacterProfile{{}, testProfile(), {VisualSummary: "A"}}
	samples := []string{"", "short", huge, strings.Repeat("y ", 60)}
	maxes := []int{0, 100, 150, 1000}

	for _, p := range profiles {
		for _, model := range samples {
			for _, caller := range samples {
				for _, m := range maxes {
					got := SelectSampleText(model, caller, p, m)
					n := utils.RuneLen(got)
					limit := m
					if limit <= 0 {
						limit = DefaultMaxSampleChars
					}
					if n < MinSampleChars || n > limit {
						t.Fatalf("len = %d for max %d (model %d, caller %d)", n, m, len(model), len(caller))
					}
				}
			}
		}
	}
}

func TestSynthesizeSample(t *testing.T) {
	got := SynthesizeSample(schema.CharacterProfile{}, 100)
	if utils.RuneLen(got) < 100 || !strings.HasPrefix(got, "Let me tell you who I am.") {
		t.Errorf("SynthesizeSample() = %q", got)
	}
	if got := SynthesizeSample(schema.CharacterProfile{}, 1000); utils.RuneLen(got) < 1000 {
		t.Errorf("fixed filler loop did not reach threshold: %d", utils.RuneLen(got))
	}
}
