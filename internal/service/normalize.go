package service

import "strings"

var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// Normalize trims surrounding whitespace and lowercases address text into a lookup key.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CacheKey joins the normalized start and end text into the result cache key "start|end".
// Separators inside either text are escaped so distinct pairs never share a key.
func CacheKey(start, end string) string {
	return keyEscaper.Replace(Normalize(start)) + "|" + keyEscaper.Replace(Normalize(end))
}
