package config

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameBytes limits cleaned name so that extension still fits into
// usual 255 bytes file system limit.
const MaxFileNameBytes = 200

const badFileName = "_bad_file_name_"

// CleanFileName turns record identifier into safe file name. Characters not
// allowed by platform and control characters become '_', leading and
// trailing dots and spaces are dropped, reserved device names get '_'
// appended. Result is never empty.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbiddenNameChars, sym) {
			return '_'
		}
		return sym
	}, in)
	out = strings.Trim(out, ". ")
	out = truncateName(out, MaxFileNameBytes)

	if len(out) == 0 || strings.Trim(out, "_") == "" {
		return badFileName
	}
	base, _, _ := strings.Cut(out, ".")
	if _, reserved := reservedNames[strings.ToUpper(base)]; reserved {
		out += "_"
	}
	return out
}

// truncateName cuts s to at most limit bytes without splitting runes.
func truncateName(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	s = s[:limit]
	for len(s) > 0 {
		if r, size := utf8.DecodeLastRuneInString(s); r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return strings.TrimRight(s, ". ")
}
