// Package shellquote renders argument vectors as Bash command lines.
package shellquote

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Join quotes every word of argv for Bash and joins them with spaces. Words
// that need no quoting are left as they are.
func Join(argv []string) (string, error) {
	words := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted, err := Quote(arg)
		if err != nil {
			return "", err
		}
		words = append(words, quoted)
	}
	return strings.Join(words, " "), nil
}

// Quote quotes a single word for Bash.
func Quote(word string) (string, error) {
	quoted, err := syntax.Quote(word, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("cannot quote %q: %w", word, err)
	}
	return quoted, nil
}

// MustJoin is like Join but falls back to unquoted words. It is meant for
// log lines, where a best-effort rendering is better than none.
func MustJoin(argv []string) string {
	line, err := Join(argv)
	if err != nil {
		return strings.Join(argv, " ")
	}
	return line
}
