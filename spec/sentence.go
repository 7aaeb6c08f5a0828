package spec

import (
	"bytes"
	"io"
	"strings"
)

// ParseSentence reads a sentence to be parsed. Tokens are separated by white spaces; a
// sentence without any white space is split into characters.
func ParseSentence(src io.Reader) ([]string, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, utf8BOM)

	return SplitSentence(string(b)), nil
}

func SplitSentence(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return strings.Fields(s)
	}
	toks := make([]string, 0, len(s))
	for _, r := range s {
		toks = append(toks, string(r))
	}
	return toks
}
