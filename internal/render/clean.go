package render

import "strings"

// cleanContent splits raw chapter text into lines and drops the ones
// matching a cleanup pattern (page markers, OCR artifacts, orphan
// bullets). Meaningful lines pass through untouched.
func cleanContent(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if isNoise(line) {
			continue
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return out
}

func isNoise(line string) bool {
	for _, p := range cleanupPatterns {
		if p.Re.MatchString(line) {
			return true
		}
	}
	return false
}
