package maven

import (
	"strings"
)

// Version is a parsed Maven version ordered like Maven's ComparableVersion:
// numeric segments compare numerically, qualifiers follow
// alpha < beta < milestone < rc < snapshot < "" < sp < anything else,
// and trailing zero or empty segments are insignificant.
type Version struct {
	raw   string
	items *listItem
}

// ParseVersion parses any string; every string is a valid version.
func ParseVersion(s string) Version {
	return Version{raw: s, items: parseItems(s)}
}

func (v Version) String() string { return v.raw }

// Compare returns -1, 0 or +1.
func (v Version) Compare(o Version) int {
	return sign(v.items.compare(o.items))
}

// CompareVersions compares two version strings.
func CompareVersions(a, b string) int {
	return ParseVersion(a).Compare(ParseVersion(b))
}

// IsSnapshot reports whether the version is a snapshot.
func (v Version) IsSnapshot() bool {
	return strings.HasSuffix(v.raw, "SNAPSHOT")
}

type item interface {
	// compare against another item; other may be nil.
	compare(other item) int
	isNull() bool
}

// intItem holds a decimal number without leading zeros ("0" for zero).
type intItem string

func newIntItem(digits string) intItem {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0"
	}
	return intItem(digits)
}

func (i intItem) isNull() bool { return i == "0" }

func (i intItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if i.isNull() {
			return 0
		}
		return 1
	case intItem:
		if len(i) != len(o) {
			return sign(len(i) - len(o))
		}
		return strings.Compare(string(i), string(o))
	default:
		// Numbers sort after qualifiers and sublists.
		return 1
	}
}

var qualifiers = []string{"alpha", "beta", "milestone", "rc", "snapshot", "", "sp"}

var aliases = map[string]string{
	"ga":      "",
	"final":   "",
	"release": "",
	"cr":      "rc",
}

const releaseIndex = "5"

type stringItem string

func newStringItem(s string, followedByDigit bool) stringItem {
	if followedByDigit && len(s) == 1 {
		switch s[0] {
		case 'a':
			s = "alpha"
		case 'b':
			s = "beta"
		case 'm':
			s = "milestone"
		}
	}
	if a, ok := aliases[s]; ok {
		s = a
	}
	return stringItem(s)
}

func comparableQualifier(q string) string {
	for i, known := range qualifiers {
		if q == known {
			return string(rune('0' + i))
		}
	}
	return "7-" + q
}

func (s stringItem) isNull() bool {
	return comparableQualifier(string(s)) == releaseIndex
}

func (s stringItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		return strings.Compare(comparableQualifier(string(s)), releaseIndex)
	case intItem:
		return -1
	case stringItem:
		return strings.Compare(comparableQualifier(string(s)), comparableQualifier(string(o)))
	default:
		return -1
	}
}

type listItem struct {
	items []item
}

func (l *listItem) isNull() bool { return len(l.items) == 0 }

func (l *listItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if len(l.items) == 0 {
			return 0
		}
		return l.items[0].compare(nil)
	case intItem:
		return -1
	case stringItem:
		return 1
	case *listItem:
		n := max(len(l.items), len(o.items))
		for i := 0; i < n; i++ {
			var left, right item
			if i < len(l.items) {
				left = l.items[i]
			}
			if i < len(o.items) {
				right = o.items[i]
			}
			var r int
			if left == nil {
				if right != nil {
					r = -right.compare(nil)
				}
			} else {
				r = left.compare(right)
			}
			if r != 0 {
				return r
			}
		}
		return 0
	}
	return 0
}

// normalize drops trailing null items, stopping at the first non-null
// non-list item.
func (l *listItem) normalize() {
	for i := len(l.items) - 1; i >= 0; i-- {
		it := l.items[i]
		if it.isNull() {
			l.items = append(l.items[:i], l.items[i+1:]...)
			continue
		}
		if _, ok := it.(*listItem); !ok {
			break
		}
	}
}

func parseItems(version string) *listItem {
	version = strings.ToLower(version)
	root := &listItem{}
	list := root
	stack := []*listItem{root}

	push := func() {
		next := &listItem{}
		list.items = append(list.items, next)
		list = next
		stack = append(stack, next)
	}
	parseItem := func(isDigit bool, s string) item {
		if isDigit {
			return newIntItem(s)
		}
		return newStringItem(s, false)
	}

	isDigit := false
	start := 0
	for i := 0; i < len(version); i++ {
		c := version[i]
		switch {
		case c == '.':
			if i == start {
				list.items = append(list.items, intItem("0"))
			} else {
				list.items = append(list.items, parseItem(isDigit, version[start:i]))
			}
			start = i + 1
		case c == '-':
			if i == start {
				list.items = append(list.items, intItem("0"))
			} else {
				list.items = append(list.items, parseItem(isDigit, version[start:i]))
			}
			start = i + 1
			push()
		case c >= '0' && c <= '9':
			if !isDigit && i > start {
				list.items = append(list.items, newStringItem(version[start:i], true))
				start = i
				push()
			}
			isDigit = true
		default:
			if isDigit && i > start {
				list.items = append(list.items, parseItem(true, version[start:i]))
				start = i
				push()
			}
			isDigit = false
		}
	}
	if len(version) > start {
		list.items = append(list.items, parseItem(isDigit, version[start:]))
	}

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].normalize()
	}
	return root
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
