// Package shellwords converts between option strings and argument lists.
//
// Split follows POSIX word splitting and quote removal only: '#', '$',
// operators such as '|' or ';' and glob characters are ordinary text. Join
// goes the other way and produces a line that can be pasted into a shell.
package shellwords

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"mvdan.cc/sh/v3/syntax"
)

// Split breaks s into words using shell quoting rules. Quotes and backslash
// escapes are removed; nothing is expanded.
func Split(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("failed to split %q: %w", s, err)
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

// Join quotes each argument for bash where needed and joins them with spaces.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", a)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
