// Package util holds small helpers shared by the commands and frontends.
package util

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

var (
	unsafeRunes = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]+`)
	runsOfUnder = regexp.MustCompile(`_{2,}`)
	edgeMarks   = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename turns an arbitrary title into a name every
// filesystem accepts.
func SanitizeFilename(name string) string {
	name = unsafeRunes.ReplaceAllString(name, "_")
	name = runsOfUnder.ReplaceAllString(name, "_")
	return edgeMarks.ReplaceAllString(name, "")
}

// Quantify formats count with the matching noun, e.g. "1 object" or "3 objects".
func Quantify(count int, singular, plural string) string {
	return fmt.Sprint(count, " ", lo.Ternary(count == 1, singular, plural))
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Max is the variadic form of lo.Max, usable from templates.
func Max[T constraints.Ordered](items ...T) T {
	return lo.Max(items)
}

// Ignore runs f and drops its error, for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

func trimExt(name string) string {
	for {
		i := strings.LastIndexByte(name, '.')
		if i <= 0 {
			return name
		}
		name = name[:i]
	}
}
