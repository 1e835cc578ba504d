// Package convert turns typed shorthand into math notation.
//
// A conversion runs three stages in a fixed order:
//
//  1. dynamic LaTeX rules (fraction, root, vector, segment), when enabled
//  2. literal substitution of every merged mapping entry, in merged order
//  3. the ";;-" combining-overline rule
//
// Literal substitution is a sequence of whole-text replacements, so a value
// that contains a later key is substituted again. Converting the output of a
// conversion is therefore not guaranteed to be a no-op.
package convert

import (
	"strings"

	"mathtype/internal/mapping"
)

// Options selects the converter variant.
type Options struct {
	// DynamicRules enables the regex LaTeX rules of the first stage.
	DynamicRules bool
	// TrailingSpace appends a space after every literal replacement so that
	// consecutive shortcuts do not glue together.
	TrailingSpace bool
}

func DefaultOptions() Options {
	return Options{DynamicRules: true}
}

// Converter is safe for concurrent use; it holds no per-call state.
type Converter struct {
	opts      Options
	dynamic   []Rule
	combining Rule
}

func New(opts Options) *Converter {
	c := &Converter{
		opts:      opts,
		combining: CombiningRule(),
	}
	if opts.DynamicRules {
		c.dynamic = DynamicRules()
	}
	return c
}

func (c *Converter) Options() Options {
	return c.opts
}

// Rules lists the active regex rules in the order they run.
func (c *Converter) Rules() []Rule {
	rules := make([]Rule, 0, len(c.dynamic)+1)
	rules = append(rules, c.dynamic...)
	return append(rules, c.combining)
}

// Convert rewrites text using the given merged mapping.
func (c *Converter) Convert(text string, merged mapping.Entries) string {
	for _, rule := range c.dynamic {
		text = rule.Apply(text)
	}

	text = Substitute(text, merged, c.opts.TrailingSpace)

	return c.combining.Apply(text)
}

// Substitute replaces every occurrence of each key by its value, one entry at
// a time, over the current state of the text.
func Substitute(text string, entries mapping.Entries, trailingSpace bool) string {
	for _, e := range entries {
		value := e.Value
		if trailingSpace {
			value += " "
		}
		text = strings.ReplaceAll(text, e.Key, value)
	}
	return text
}
