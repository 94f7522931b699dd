package linkref

import (
	"regexp"
	"strings"
)

// urlPattern matches http(s) URLs and bare www. hosts in free text.
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)

// trailingPunct is stripped from the end of a match so that a URL at the
// end of a sentence does not keep the full stop.
const trailingPunct = ".,;:!?)]}"

// ExtractURLs extracts all URLs from text. Returns a deduplicated list
// preserving the order of first occurrence. Bare www. hosts are returned
// with an https:// scheme.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		m = strings.TrimRight(m, trailingPunct)
		if strings.HasPrefix(strings.ToLower(m), "www.") {
			m = "https://" + m
		}
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}

// Merge returns the explicit links followed by any URLs found in the
// given texts that are not already present.
func Merge(links []string, texts ...string) []string {
	seen := make(map[string]bool, len(links))
	var result []string
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		result = append(result, l)
	}

	for _, u := range ExtractURLs(strings.Join(texts, " ")) {
		if seen[u] {
			continue
		}
		seen[u] = true
		result = append(result, u)
	}
	return result
}
