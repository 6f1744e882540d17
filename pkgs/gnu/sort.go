package gnu

import "strings"

// Compare orders version strings the way GNU sort -V and dpkg do and
// returns -1, 0 or +1.
//
// Both strings are split into alternating runs of non-digits and digits.
// Non-digit runs are compared character by character: '~' sorts before
// the end of the run, which sorts before letters, which sort before any
// other character. Digit runs are compared by numeric value.
func Compare(a, b string) int {
	for a != "" || b != "" {
		var ta, tb string
		ta, a = cut(a, false)
		tb, b = cut(b, false)
		if c := compareText(ta, tb); c != 0 {
			return c
		}
		ta, a = cut(a, true)
		tb, b = cut(b, true)
		if c := compareNumber(ta, tb); c != 0 {
			return c
		}
	}
	return 0
}

// cut splits off the leading run of s made of digits (or non-digits).
func cut(s string, digits bool) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func compareText(a, b string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		if oa, ob := weight(a, i), weight(b, i); oa != ob {
			return sign(oa - ob)
		}
	}
	return 0
}

func compareNumber(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return strings.Compare(a, b)
}

// weight is the sort weight of s[i] within a non-digit run.
func weight(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	switch c := s[i]; {
	case c == '~':
		return -1
	case isAlpha(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
