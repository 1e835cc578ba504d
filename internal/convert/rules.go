package convert

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Marker words typed after the leading semicolon.
const (
	RootMarker    = "루트"
	VectorMarker  = "벡터"
	SegmentMarker = "선분"
)

const (
	combiningOverline = "\u0305"
	rootSign          = "√"
)

// Rule rewrites every non-overlapping match of Pattern, left to right, in a
// single pass. Transform receives the full match followed by its capture
// groups. An empty result leaves the match untouched.
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	Transform func(groups []string) string
}

// Apply runs the rule once over text.
func (r Rule) Apply(text string) string {
	matches := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}

		b.WriteString(text[last:loc[0]])
		if out := r.Transform(groups); out != "" {
			b.WriteString(out)
		} else {
			b.WriteString(groups[0])
		}
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// DynamicRules returns the LaTeX rules in application order: fraction, root,
// vector, segment.
func DynamicRules() []Rule {
	return []Rule{
		{
			Name:    "fraction",
			Pattern: regexp.MustCompile(`;(\d+)/(\d+)`),
			Transform: func(g []string) string {
				return `\frac{` + g[1] + `}{` + g[2] + `}`
			},
		},
		{
			Name:    "root",
			Pattern: regexp.MustCompile(`;` + RootMarker + `([0-9A-Za-z+\-*/\s]+)`),
			Transform: func(g []string) string {
				return `\sqrt{` + g[1] + `}`
			},
		},
		{
			Name:    "vector",
			Pattern: regexp.MustCompile(`;` + VectorMarker + `([A-Za-z]+)`),
			Transform: func(g []string) string {
				return `\vec{` + strings.ToUpper(g[1]) + `}`
			},
		},
		{
			Name:    "segment",
			Pattern: regexp.MustCompile(`;` + SegmentMarker + `([A-Za-z]+)`),
			Transform: func(g []string) string {
				return `\overline{` + strings.ToUpper(g[1]) + `}`
			},
		},
	}
}

// CombiningRule rewrites ";;-<word>" into characters carrying U+0305. A word
// made only of digits gets a leading root sign; any other word is uppercased
// character by character.
func CombiningRule() Rule {
	return Rule{
		Name:      "combining-overline",
		Pattern:   regexp.MustCompile(`;;-([\p{L}\p{N}_]+)`),
		Transform: func(g []string) string { return overline(g[1]) },
	}
}

func overline(word string) string {
	var b strings.Builder
	if isDigits(word) {
		b.WriteString(rootSign)
		for _, r := range word {
			b.WriteRune(r)
			b.WriteString(combiningOverline)
		}
		return b.String()
	}
	// Casers carry state, so each call gets its own.
	upper := cases.Upper(language.Und)
	for _, r := range word {
		b.WriteString(upper.String(string(r)))
		b.WriteString(combiningOverline)
	}
	return b.String()
}

// digitValue holds the runes outside Nd that still carry a digit value:
// superscripts, subscripts, circled and parenthesized digits and a few
// historic scripts. Together with Nd they form the digit class of the
// combining rule.
var digitValue = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1e8c7, Hi: 0x1e8cf, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.Is(digitValue, r) {
			return false
		}
	}
	return true
}
