package types

import (
	"fmt"
	"strconv"
	"strings"
)

// PartKind tags a single segment of a Version.
type PartKind int

const (
	PartInt PartKind = iota
	PartStr
	PartWildcardSingle
	PartWildcardRest
	PartSep
)

// Part is one element of a Version's alternating value/separator sequence.
type Part struct {
	Kind PartKind
	Int  uint64
	Str  string // value text for PartStr, separator character for PartSep
}

func (p Part) String() string {
	switch p.Kind {
	case PartInt:
		return strconv.FormatUint(p.Int, 10)
	case PartStr, PartSep:
		return p.Str
	case PartWildcardSingle:
		return "*"
	case PartWildcardRest:
		return ">"
	default:
		return "?"
	}
}

func (p Part) isValue() bool { return p.Kind != PartSep }
func (p Part) isWildcard() bool {
	return p.Kind == PartWildcardSingle || p.Kind == PartWildcardRest
}

// Version is an ordered sequence of parts, starting and ending with a
// value-part (spec §3): 2n-1 parts for n segments, n >= 1.
type Version struct {
	Parts []Part
}

func (v Version) String() string {
	var b strings.Builder
	for _, p := range v.Parts {
		b.WriteString(p.String())
	}
	return b.String()
}

// ValueParts returns only the value-parts (even indices) of the version.
func (v Version) ValueParts() []Part {
	out := make([]Part, 0, (len(v.Parts)+1)/2)
	for i, p := range v.Parts {
		if i%2 == 0 {
			out = append(out, p)
		}
	}
	return out
}

// HasWildcard reports whether any value-part of v is a wildcard.
func (v Version) HasWildcard() bool {
	for _, p := range v.ValueParts() {
		if p.isWildcard() {
			return true
		}
	}
	return false
}

func (v Version) Equal(other Version) bool {
	if len(v.Parts) != len(other.Parts) {
		return false
	}
	for i := range v.Parts {
		a, b := v.Parts[i], other.Parts[i]
		if a.Kind != b.Kind || a.Int != b.Int || a.Str != b.Str {
			return false
		}
	}
	return true
}

// VersionParseErrorKind enumerates the ways a version string can fail to
// parse, matching the cases original_source/src/package/version.rs names
// explicitly (spec.md §6 gives only the grammar, not the error taxonomy).
type VersionParseErrorKind string

const (
	VersionErrTrailingSeparator VersionParseErrorKind = "trailing_separator"
	VersionErrInvalidCharacter  VersionParseErrorKind = "invalid_character"
	VersionErrInvalidSegment    VersionParseErrorKind = "invalid_segment"
	VersionErrEmptySegment      VersionParseErrorKind = "empty_segment"
	VersionErrSegmentAfterRest  VersionParseErrorKind = "segment_after_rest"
)

type VersionParseError struct {
	Kind  VersionParseErrorKind
	Input string
	Detail string
}

func (e *VersionParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid version %q: %s (%s)", e.Input, e.Detail, e.Kind)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Kind)
}

const versionSeparators = ".-+"

// ParseVersion parses the version string grammar of spec.md §6: an
// optional leading "v", value-parts (digits | alnum | "*" | ">") separated
// by any of {. - +}, no trailing separator, ">" at most once and only as
// the final value-part.
func ParseVersion(raw string) (Version, error) {
	text := raw
	if strings.HasPrefix(text, "v") && len(text) > 1 {
		text = text[1:]
	}
	if text == "" {
		return Version{}, &VersionParseError{Kind: VersionErrEmptySegment, Input: raw, Detail: "empty version"}
	}

	var parts []Part
	seenRest := false
	last := 0
	parseSeg := func(seg string) (Part, error) {
		if seenRest {
			return Part{}, &VersionParseError{Kind: VersionErrSegmentAfterRest, Input: raw, Detail: seg}
		}
		switch {
		case seg == "":
			return Part{}, &VersionParseError{Kind: VersionErrEmptySegment, Input: raw}
		case seg == "*":
			return Part{Kind: PartWildcardSingle}, nil
		case seg == ">":
			seenRest = true
			return Part{Kind: PartWildcardRest}, nil
		case isAllDigits(seg):
			n, err := strconv.ParseUint(seg, 10, 64)
			if err != nil {
				return Part{}, &VersionParseError{Kind: VersionErrInvalidSegment, Input: raw, Detail: seg}
			}
			return Part{Kind: PartInt, Int: n}, nil
		case isAlphanumeric(seg):
			return Part{Kind: PartStr, Str: seg}, nil
		default:
			return Part{}, &VersionParseError{Kind: VersionErrInvalidCharacter, Input: raw, Detail: seg}
		}
	}

	for i := 0; i < len(text); i++ {
		if strings.ContainsRune(versionSeparators, rune(text[i])) {
			part, err := parseSeg(text[last:i])
			if err != nil {
				return Version{}, err
			}
			parts = append(parts, part)
			parts = append(parts, Part{Kind: PartSep, Str: string(text[i])})
			last = i + 1
		}
	}
	if last == len(text) {
		return Version{}, &VersionParseError{Kind: VersionErrTrailingSeparator, Input: raw}
	}
	final, err := parseSeg(text[last:])
	if err != nil {
		return Version{}, err
	}
	parts = append(parts, final)
	return Version{Parts: parts}, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// reservedStrRank implements the descending chain of spec.md §3 rule 4:
// stable < latest < beta < alpha < master < main < devel < dev < git.
// Higher rank compares greater; unreserved strings rank below all of
// these and compare lexicographically among themselves.
var reservedStrRank = map[string]int{
	"stable": 0,
	"latest": 1,
	"beta":   2,
	"alpha":  3,
	"master": 4,
	"main":   5,
	"devel":  6,
	"dev":    7,
	"git":    8,
}

// CompareVersions implements the total order of spec.md §3 over two
// concrete (wildcard-free) versions. Returns -1, 0, 1, or an error if the
// versions are incomparable (mismatched separators at a compared
// position) or if either carries a wildcard part.
func CompareVersions(a, b Version) (int, error) {
	if a.HasWildcard() || b.HasWildcard() {
		return 0, fmt.Errorf("cannot order-compare versions containing wildcards: %q vs %q", a, b)
	}
	av, bv := a.ValueParts(), b.ValueParts()
	m := len(av)
	if len(bv) < m {
		m = len(bv)
	}
	for i := 0; i < m; i++ {
		if i > 0 {
			sepA := a.Parts[2*i-1]
			sepB := b.Parts[2*i-1]
			if sepA.Str != sepB.Str {
				return 0, fmt.Errorf("versions %q and %q are incomparable: separator mismatch at segment %d", a, b, i)
			}
		}
		cmp, err := compareValuePart(av[i], bv[i])
		if err != nil {
			return 0, err
		}
		if cmp != 0 {
			return cmp, nil
		}
	}
	switch {
	case len(av) == len(bv):
		return 0, nil
	case len(av) < len(bv):
		// Shorter version is greater (rule 5).
		return 1, nil
	default:
		return -1, nil
	}
}

func compareValuePart(a, b Part) (int, error) {
	if a.isWildcard() || b.isWildcard() {
		return 0, fmt.Errorf("cannot order-compare wildcard parts")
	}
	switch {
	case a.Kind == PartStr && b.Kind == PartInt:
		return -1, nil
	case a.Kind == PartInt && b.Kind == PartStr:
		return 1, nil
	case a.Kind == PartInt && b.Kind == PartInt:
		switch {
		case a.Int < b.Int:
			return -1, nil
		case a.Int > b.Int:
			return 1, nil
		default:
			return 0, nil
		}
	case a.Kind == PartStr && b.Kind == PartStr:
		return compareStrParts(a.Str, b.Str), nil
	default:
		return 0, fmt.Errorf("unsupported part kinds in comparison")
	}
}

func compareStrParts(a, b string) int {
	rankA, okA := reservedStrRank[a]
	rankB, okB := reservedStrRank[b]
	switch {
	case okA && okB:
		switch {
		case rankA < rankB:
			return -1
		case rankA > rankB:
			return 1
		default:
			return 0
		}
	case okA && !okB:
		return 1
	case !okA && okB:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// MatchesWildcard implements the per-part conjunction of spec.md §4.G:
// pattern may contain Single/Rest wildcards; Single skips its position,
// Rest matches the remainder of concrete regardless of length or
// separators. A pattern with no wildcards behaves like exact equality.
func (pattern Version) MatchesWildcard(concrete Version) bool {
	pv := pattern.ValueParts()
	cv := concrete.ValueParts()
	for i, pp := range pv {
		if pp.Kind == PartWildcardRest {
			return true
		}
		if i >= len(cv) {
			return false
		}
		if i > 0 {
			sepP := pattern.Parts[2*i-1].Str
			sepC := concrete.Parts[2*i-1].Str
			if sepP != sepC {
				return false
			}
		}
		if pp.Kind == PartWildcardSingle {
			continue
		}
		cp := cv[i]
		if pp.Kind != cp.Kind || pp.Int != cp.Int || pp.Str != cp.Str {
			return false
		}
	}
	return len(pv) == len(cv)
}
