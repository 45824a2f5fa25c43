// SPDX-License-Identifier: MPL-2.0

package steamcmd

import (
	"fmt"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Args is a rendered steamcmd argument list, ready to be passed to exec
// without the executable name.
type Args []string

// String joins the tokens with single spaces. It is meant for display;
// use CommandLine for something a shell can run.
func (a Args) String() string { return strings.Join(a, " ") }

// Clone returns an independent copy of the tokens.
func (a Args) Clone() Args { return slices.Clone(a) }

// CommandLine renders binary followed by the tokens as a POSIX shell command
// line, quoting every word that needs it (paths with spaces, empty user names).
func (a Args) CommandLine(binary string) (string, error) {
	words := make([]string, 0, len(a)+1)
	for _, w := range append([]string{binary}, a...) {
		q, err := syntax.Quote(w, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", w, err)
		}
		words = append(words, q)
	}
	return strings.Join(words, " "), nil
}
