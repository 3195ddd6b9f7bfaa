package utils

import (
	"github.com/pkoukk/tiktoken-go"
)

// NumTokens estimates how many tokens text costs against the chat models.
func NumTokens(text string) (int, error) {
	tkm, err := tiktoken.EncodingForModel("gpt-4o-mini")
	if err != nil {
		return 0, err
	}

	return len(tkm.Encode(text, nil, nil)), nil
}
