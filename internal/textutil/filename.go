package textutil

import (
	"strings"
	"unicode"
)

// maxNameRunes bounds the stem of a generated file name.
const maxNameRunes = 80

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a video title usable as a file name. Path separators
// and colons become dashes, other reserved characters and control characters
// are dropped, whitespace runs collapse to one space, and the result is cut
// to a bounded length.
func SanitizeFileName(name string) string {
	name = fileNameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	if runes := []rune(name); len(runes) > maxNameRunes {
		name = strings.TrimSpace(string(runes[:maxNameRunes]))
	}
	return strings.Trim(name, ". ")
}

// DownloadName builds the file name offered to clients for an artifact:
// the sanitized title when there is one, otherwise the fallback, plus ext.
func DownloadName(title, fallback, ext string) string {
	stem := SanitizeFileName(title)
	if stem == "" {
		stem = SanitizeFileName(fallback)
	}
	if stem == "" {
		stem = "transcript"
	}
	if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
		return stem + "." + ext
	}
	return stem
}
