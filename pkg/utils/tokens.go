package utils

import (
	"github.com/pkoukk/tiktoken-go"
)

// NumTokensFromMessages counts prompt tokens so completion budgets can be
// sized relative to the input instead of a fixed ceiling.
func NumTokensFromMessages(text string) (int, error) {
	tkm, err := tiktoken.EncodingForModel("gpt-4-0613")
	if err != nil {
		return 0, err
	}

	return len(tkm.Encode(text, nil, nil)), nil
}
