package scanner

import "regexp"

// socialPatterns maps a platform to its ordered URL patterns. Adding a
// platform is a table edit; the extraction loop never changes.
var socialPatterns = map[string][]*regexp.Regexp{
	"instagram": {
		regexp.MustCompile(`(?i)instagram\.com/([a-zA-Z0-9_.]+)`),
		regexp.MustCompile(`(?i)instagr\.am/([a-zA-Z0-9_.]+)`),
	},
	"facebook": {
		regexp.MustCompile(`(?i)facebook\.com/pages/([^/]+/[0-9]+)`),
		regexp.MustCompile(`(?i)facebook\.com/([a-zA-Z0-9_.]+)`),
		regexp.MustCompile(`(?i)fb\.com/([a-zA-Z0-9_.]+)`),
	},
	"twitter": {
		regexp.MustCompile(`(?i)twitter\.com/([a-zA-Z0-9_]+)`),
		regexp.MustCompile(`(?i)x\.com/([a-zA-Z0-9_]+)`),
	},
	"linkedin": {
		regexp.MustCompile(`(?i)linkedin\.com/company/([a-zA-Z0-9-]+)`),
		regexp.MustCompile(`(?i)linkedin\.com/in/([a-zA-Z0-9-]+)`),
	},
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

var phonePatterns = []*regexp.Regexp{
	// US format
	regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	// Loose international format
	regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
}
