package summarizer

import "unicode/utf8"

// charsPerToken is a rough average over English and CJK news text.
const charsPerToken = 3

// EstimateTokens approximates how many model tokens text costs. It is only
// used to report how much of an article the input budget cut off.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(utf8.RuneCountInString(text)/charsPerToken, 1)
}
