package logger

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// maxValueLen bounds how much of a single field value reaches the log.
const maxValueLen = 256

func redactPIIValue(key, val string) string {
	if strings.Contains(strings.ToLower(key), "email") {
		return RedactEmail(val)
	}
	// Uploaded cells may carry addresses in any column.
	return Truncate(emailRegex.ReplaceAllStringFunc(val, RedactEmail), maxValueLen)
}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" becomes "jo***@example.com"; local parts of two
// characters or fewer are fully masked.
func RedactEmail(email string) string {
	name, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(name) > 2 {
		return name[:2] + "***@" + domain
	}
	return "***@" + domain
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
