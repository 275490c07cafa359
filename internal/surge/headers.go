package surge

import (
	"strings"

	"subio/internal/common"
	"subio/internal/node"
)

// ParseHeaders parses a websocket header list.
//
// Grammar:
//
//	headers = pair { "|" pair }
//	pair    = name ":" value
//
// Each pair is split at its first ":" so values may contain colons
// (e.g. "Host:example.com:443"). Names and values are trimmed. Empty pairs
// are ignored; pairs without ":" are returned in malformed and left out of
// the result.
func ParseHeaders(s string) (headers *node.Record, malformed []string) {
	headers = node.New()

	for pair := range strings.SplitSeq(s, "|") {
		if strings.TrimSpace(pair) == "" {
			continue
		}

		name, value, ok := common.CutTrim(pair, ":")
		if !ok || name == "" {
			malformed = append(malformed, pair)
			continue
		}

		headers.Set(name, value)
	}

	return headers, malformed
}
