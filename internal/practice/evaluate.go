package practice

import (
	"regexp"
	"strings"
)

var optionPrefixRe = regexp.MustCompile(`^[A-Z][.)]\s*`)

// OptionLetter maps a 0-based option index to its display letter
// (0 -> "A", 1 -> "B", ...).
func OptionLetter(index int) string {
	if index < 0 {
		return ""
	}
	return string(rune('A' + index))
}

// StripOptionPrefix drops a leading "A. " / "A)" style label so the
// renderer can add its own.
func StripOptionPrefix(option string) string {
	return optionPrefixRe.ReplaceAllString(option, "")
}

// IsCorrectOption reports whether the option at the given 0-based index
// should be marked correct once the learner reveals the answer.
//
// Source files record answers inconsistently: some by option letter
// ("B", or comma-joined "A, C"), some by the full option text. An option
// matches if its derived letter is in the letter set, or its trimmed text
// equals an answer entry (exact first, then case-insensitive).
func IsCorrectOption(answer []string, option string, index int) bool {
	if len(answer) == 0 {
		return false
	}
	letters := map[string]struct{}{}
	for _, a := range answer {
		for _, tok := range strings.Split(a, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			letters[strings.ToUpper(tok)] = struct{}{}
		}
	}
	if letter := OptionLetter(index); letter != "" {
		if _, ok := letters[letter]; ok {
			return true
		}
	}
	text := strings.TrimSpace(option)
	if text == "" {
		return false
	}
	for _, a := range answer {
		entry := strings.TrimSpace(a)
		if text == entry || strings.EqualFold(text, entry) {
			return true
		}
	}
	return false
}

// CorrectOptions returns the 0-based indexes of a question's correct
// options. Malformed answers or options yield an empty slice, never an
// error.
func CorrectOptions(q Question) []int {
	out := []int{}
	for i, opt := range q.Options {
		if IsCorrectOption(q.Answer, opt, i) {
			out = append(out, i)
		}
	}
	return out
}
