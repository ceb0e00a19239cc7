package extract

// localIntentPhrases mean "near the user's current position".
var localIntentPhrases = []string{
	"near me",
	"nearby",
	"near by",
	"around me",
	"close to me",
	"close by",
	"in my area",
}

var localIntentPattern = NewWordPattern(localIntentPhrases)

// StripLocalIntent removes every local-intent phrase from text and reports
// whether any was present.
func StripLocalIntent(text string) (string, bool) {
	if !localIntentPattern.MatchString(text) {
		return text, false
	}
	return localIntentPattern.Remove(text), true
}
