package compose

import (
	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

const (
	MinSampleChars        = 100
	DefaultMaxSampleChars = 1000
)

// SelectSampleText picks the utterance sent to the voice provider: the model's
// sample, then the caller's text, then a synthesized line, taking the first
// that reaches MinSampleChars after sanitizing. The result is hard-cut to
// maxChars runes.
func SelectSampleText(modelSample, callerText string, p schema.CharacterProfile, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxSampleChars
	}
	maxChars = max(maxChars, MinSampleChars)

	text := utils.SanitizeSample(modelSample)
	if utils.RuneLen(text) < MinSampleChars {
		text = utils.SanitizeSample(callerText)
	}
	if utils.RuneLen(text) < MinSampleChars {
		text = SynthesizeSample(p, MinSampleChars)
	}
	return utils.Truncate(text, maxChars)
}
