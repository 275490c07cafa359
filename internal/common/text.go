package common

import "golang.org/x/text/encoding/unicode"

// StripBOM removes a leading UTF-8 byte order mark. Invalid UTF-8 sequences
// are replaced with U+FFFD by the decoder.
func StripBOM(s string) string {
	out, err := unicode.UTF8BOM.NewDecoder().String(s)
	if err != nil {
		return s
	}

	return out
}
