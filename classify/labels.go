// SPDX-License-Identifier: EPL-2.0

package classify

// Label sets, in the order the scorers emit probabilities.
var (
	GenderLabels   = []string{"Female", "Male"}
	LanguageLabels = []string{"English", "Non-English"}
	EmotionLabels  = []string{"Angry", "Calm", "Disgust", "Fearful", "Happy", "Neutral", "Sad", "Surprised"}
)

const (
	acceptedGender   = "Female"
	acceptedLanguage = "English"
)

// Argmax returns the index of the largest score. Ties resolve to the lowest
// index. It returns -1 for an empty slice.
func Argmax(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}

	best := 0
	for i, s := range scores[1:] {
		if s > scores[best] {
			best = i + 1
		}
	}
	return best
}
