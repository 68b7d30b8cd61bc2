package version

import (
	"fmt"
	"strconv"
	"strings"
)

// release is a parsed "vMAJOR.MINOR.PATCH[-pre]" tag.
type release struct {
	parts [3]int
	pre   string
}

func parse(s string) (r release, err error) {
	core, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	r.pre = pre

	fields := strings.Split(core, ".")
	if len(fields) != len(r.parts) {
		return r, fmt.Errorf("version %q: want MAJOR.MINOR.PATCH", s)
	}
	for i, f := range fields {
		if r.parts[i], err = strconv.Atoi(f); err != nil {
			return r, fmt.Errorf("version %q: %w", s, err)
		}
	}
	return r, nil
}

// Compare orders two release tags: 1 when a is newer, -1 when b is, 0
// when equal. A pre-release sorts before the plain release it precedes.
func Compare(a, b string) (int, error) {
	ra, err := parse(a)
	if err != nil {
		return 0, err
	}
	rb, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range ra.parts {
		if d := ra.parts[i] - rb.parts[i]; d != 0 {
			return sign(d), nil
		}
	}

	switch {
	case ra.pre == rb.pre:
		return 0, nil
	case ra.pre == "":
		return 1, nil
	case rb.pre == "":
		return -1, nil
	default:
		return strings.Compare(ra.pre, rb.pre), nil
	}
}

func sign(d int) int {
	if d > 0 {
		return 1
	}
	return -1
}
