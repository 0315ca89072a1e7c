package usecase

import "strings"

const ModerationWarning = "Не ругайтесь!"

var BadWords = []string{"редиска", "негодяй"}

// ContainsBadWords is a case-insensitive substring check.
func ContainsBadWords(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range BadWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}
