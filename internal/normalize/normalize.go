// Package normalize turns renderer output into the canonical text form the
// section locator matches against: NFKD-folded, upper-cased, one blank line
// between lines, section headers repaired and punctuation reduced to a small
// allowed set.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultKeep lists the punctuation that survives the character filter.
const DefaultKeep = "&.%"

// Options controls the character filter applied at the end of Normalize.
type Options struct {
	// RemoveDigits drops 0-9 from the allowed set.
	RemoveDigits bool
	// Keep lists punctuation kept verbatim. Empty means DefaultKeep.
	Keep string
}

// Normalizer applies the normalization pipeline with fixed Options.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer for opts.
func New(opts Options) Normalizer {
	if opts.Keep == "" {
		opts.Keep = DefaultKeep
	}
	return Normalizer{opts: opts}
}

// Normalize runs the default Normalizer.
func Normalize(text string) string {
	return New(Options{}).Normalize(text)
}

var (
	spacesBeforeBreak = regexp.MustCompile(`[ ]+\n`)
	spacesAfterBreak  = regexp.MustCompile(`\n[ ]+`)
	breakRun          = regexp.MustCompile(`\n+`)
)

// headerRepairs run in order; later pairs see the output of earlier ones.
var headerRepairs = []struct{ old, new string }{
	{"\n.\n", ".\n"},
	{"\nI\nTEM", "\nITEM"},
	{"\nITEM\n", "\nITEM "},
	{"\nITEM  ", "\nITEM "},
	{":\n", ".\n"},
	{"$\n", "$"},
	{"\n%", "%"},
}

// Normalize returns the canonical form of text. It never fails; clean input
// passes through close to unchanged apart from case and line spacing.
func (n Normalizer) Normalize(text string) string {
	text = norm.NFKD.String(text)
	text = unifyLineBreaks(text)
	text = strings.ToUpper(text)

	text = collapseBreaks(text)
	for _, r := range headerRepairs {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	text = strings.ReplaceAll(text, "\n", "\n\n")

	return n.FilterChars(text)
}

// collapseBreaks strips spaces around line breaks and squeezes break runs
// down to one.
func collapseBreaks(text string) string {
	text = spacesBeforeBreak.ReplaceAllString(text, "\n")
	text = spacesAfterBreak.ReplaceAllString(text, "\n")
	return breakRun.ReplaceAllString(text, "\n")
}

// FilterChars replaces every rune outside the allowed set with a space.
// Brackets and underscores are always replaced. Runs last, so punctuation at
// a line edge leaves a space there: a quoted "ITEM 7A" cross reference never
// lines up with a heading anchor.
func (n Normalizer) FilterChars(text string) string {
	keep := n.opts.Keep
	if keep == "" {
		keep = DefaultKeep
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '[' || r == ']' || r == '_':
			return ' '
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			if n.opts.RemoveDigits {
				return ' '
			}
			return r
		case unicode.IsSpace(r):
			return r
		case strings.ContainsRune(keep, r):
			return r
		}
		return ' '
	}, text)
}

// unifyLineBreaks rewrites every line terminator as "\n". A single trailing
// terminator is dropped, matching a split into lines and a rejoin.
func unifyLineBreaks(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevCR := false
	for _, r := range text {
		if prevCR && r == '\n' {
			prevCR = false
			continue
		}
		prevCR = r == '\r'
		switch r {
		case '\r', '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			b.WriteByte('\n')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
