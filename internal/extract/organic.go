package extract

const organicWord = "organic"

var organicPattern = NewWordPattern([]string{organicWord})

// IsOrganic reports whether text mentions "organic" as a whole word.
func IsOrganic(text string) bool {
	return organicPattern.MatchString(text)
}
