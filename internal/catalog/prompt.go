package catalog

import "strings"

// NormalizePrompt decodes prompt bytes as UTF-8, dropping invalid sequences,
// and collapses whitespace runs to single spaces. Blank input yields "".
func NormalizePrompt(data []byte) string {
	return NormalizeText(strings.ToValidUTF8(string(data), ""))
}

// NormalizeText collapses whitespace runs in s and trims it.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
