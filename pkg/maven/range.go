package maven

import (
	"strings"

	"github.com/matzehuels/versionrange/pkg/errors"
)

// Restriction is one interval of a [Range]. A nil bound is unbounded.
type Restriction struct {
	Lower          *Version
	LowerInclusive bool
	Upper          *Version
	UpperInclusive bool
}

// Contains reports whether v lies inside the restriction.
func (r Restriction) Contains(v Version) bool {
	if r.Lower != nil {
		c := r.Lower.Compare(v)
		if c > 0 || (c == 0 && !r.LowerInclusive) {
			return false
		}
	}
	if r.Upper != nil {
		c := r.Upper.Compare(v)
		if c < 0 || (c == 0 && !r.UpperInclusive) {
			return false
		}
	}
	return true
}

func (r Restriction) String() string {
	var sb strings.Builder
	if r.LowerInclusive {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	if r.Lower != nil && r.Upper != nil && r.LowerInclusive && r.UpperInclusive && r.Lower.Compare(*r.Upper) == 0 {
		sb.WriteString(r.Lower.String())
		sb.WriteByte(']')
		return sb.String()
	}
	if r.Lower != nil {
		sb.WriteString(r.Lower.String())
	}
	sb.WriteByte(',')
	if r.Upper != nil {
		sb.WriteString(r.Upper.String())
	}
	if r.UpperInclusive {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

// Range is a parsed version specification: either a soft (recommended)
// version or a union of restrictions.
type Range struct {
	Recommended  *Version
	Restrictions []Restriction
}

// IsRange reports whether the specification contained bracketed
// restrictions rather than a plain version.
func (r Range) IsRange() bool { return r.Recommended == nil }

// Contains reports whether v satisfies the range. A soft version matches
// only itself.
func (r Range) Contains(v Version) bool {
	if r.Recommended != nil {
		return r.Recommended.Compare(v) == 0
	}
	for _, res := range r.Restrictions {
		if res.Contains(v) {
			return true
		}
	}
	return false
}

func (r Range) String() string {
	if r.Recommended != nil {
		return r.Recommended.String()
	}
	parts := make([]string, len(r.Restrictions))
	for i, res := range r.Restrictions {
		parts[i] = res.String()
	}
	return strings.Join(parts, ",")
}

// IsRangeSpec reports whether spec looks like a bracketed range.
func IsRangeSpec(spec string) bool {
	spec = strings.TrimSpace(spec)
	return strings.HasPrefix(spec, "[") || strings.HasPrefix(spec, "(")
}

// ParseRange parses a version specification such as "1.0", "[1.0]",
// "[1.0,2.0)", "(,1.0]" or "[1.2,1.3],[1.5,)". Restrictions must be given in
// ascending order without overlap.
func ParseRange(spec string) (Range, error) {
	process := strings.TrimSpace(spec)
	if process == "" {
		return Range{}, errors.New(errors.ErrCodeInvalidRange, "empty version specification")
	}

	var (
		restrictions []Restriction
		upperBound   *Version
	)
	for strings.HasPrefix(process, "[") || strings.HasPrefix(process, "(") {
		index := strings.IndexAny(process, ")]")
		if index < 0 {
			return Range{}, errors.New(errors.ErrCodeInvalidRange, "unbounded range: %s", spec)
		}

		r, err := parseRestriction(process[:index+1])
		if err != nil {
			return Range{}, err
		}
		if upperBound != nil && (r.Lower == nil || r.Lower.Compare(*upperBound) < 0) {
			return Range{}, errors.New(errors.ErrCodeInvalidRange, "ranges overlap: %s", spec)
		}
		restrictions = append(restrictions, r)
		upperBound = r.Upper

		process = strings.TrimSpace(process[index+1:])
		if strings.HasPrefix(process, ",") {
			process = strings.TrimSpace(process[1:])
		}
	}

	if process != "" {
		if len(restrictions) > 0 {
			return Range{}, errors.New(errors.ErrCodeInvalidRange,
				"only fully-qualified sets allowed in multiple set scenario: %s", spec)
		}
		if strings.ContainsAny(process, "[](),") {
			return Range{}, errors.New(errors.ErrCodeInvalidRange, "invalid version specification: %s", spec)
		}
		v := ParseVersion(process)
		return Range{Recommended: &v}, nil
	}
	return Range{Restrictions: restrictions}, nil
}

func parseRestriction(spec string) (Restriction, error) {
	r := Restriction{
		LowerInclusive: strings.HasPrefix(spec, "["),
		UpperInclusive: strings.HasSuffix(spec, "]"),
	}
	process := strings.TrimSpace(spec[1 : len(spec)-1])

	index := strings.Index(process, ",")
	if index < 0 {
		if !r.LowerInclusive || !r.UpperInclusive {
			return Restriction{}, errors.New(errors.ErrCodeInvalidRange, "single version must be surrounded by []: %s", spec)
		}
		if process == "" {
			return Restriction{}, errors.New(errors.ErrCodeInvalidRange, "empty version in range: %s", spec)
		}
		v := ParseVersion(process)
		r.Lower, r.Upper = &v, &v
		return r, nil
	}

	lower := strings.TrimSpace(process[:index])
	upper := strings.TrimSpace(process[index+1:])
	if strings.Contains(upper, ",") {
		return Restriction{}, errors.New(errors.ErrCodeInvalidRange, "invalid version range: %s", spec)
	}
	if lower != "" && lower == upper {
		return Restriction{}, errors.New(errors.ErrCodeInvalidRange, "range cannot have identical boundaries: %s", spec)
	}
	if lower != "" {
		v := ParseVersion(lower)
		r.Lower = &v
	}
	if upper != "" {
		v := ParseVersion(upper)
		r.Upper = &v
	}
	if r.Lower != nil && r.Upper != nil && r.Upper.Compare(*r.Lower) < 0 {
		return Restriction{}, errors.New(errors.ErrCodeInvalidRange, "range defies version ordering: %s", spec)
	}
	return r, nil
}

// Highest returns the highest of the given versions that the range
// contains, and false when none does.
func (r Range) Highest(versions []string) (string, bool) {
	var (
		best  Version
		found bool
	)
	for _, s := range versions {
		v := ParseVersion(s)
		if !r.Contains(v) {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best, found = v, true
		}
	}
	return best.String(), found
}
