// Package mda extracts the MD&A section of one filing: it normalizes the
// rendered text, locates Item 7 and retries once when the first hit is too
// short to be the real section.
package mda

import (
	"errors"
	"strings"

	"github.com/hyperifyio/mdaextract/internal/filing"
	"github.com/hyperifyio/mdaextract/internal/normalize"
	"github.com/hyperifyio/mdaextract/internal/section"
)

// DefaultMinSectionBytes is the length below which a first match is treated
// as a cross-reference or table of contents entry and the search is retried.
const DefaultMinSectionBytes = 1000

// ErrNoMatch is returned when neither attempt found a section.
var ErrNoMatch = errors.New("mda: section not found")

// State is a step of the two-attempt search.
type State int

const (
	Unattempted State = iota
	FirstMatch
	Retrying
	Accepted
	Failed
)

func (s State) String() string {
	switch s {
	case Unattempted:
		return "unattempted"
	case FirstMatch:
		return "first-match"
	case Retrying:
		return "retrying"
	case Accepted:
		return "accepted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result records how the section was found.
type Result struct {
	State    State
	Attempts int
	// Section is the match in effect: the second attempt's once a retry ran.
	Section section.Match
	// Discarded holds the short first match replaced by the retry.
	Discarded *section.Match
}

// Retried reports whether a second Locate call was made.
func (r Result) Retried() bool { return r.Attempts > 1 }

// Extractor runs the per-filing extraction.
type Extractor struct {
	Normalizer normalize.Normalizer
	Locator    section.Locator
	// MinSectionBytes overrides DefaultMinSectionBytes when positive.
	// A negative value disables the retry.
	MinSectionBytes int
	// StripDigits blanks digits in the persisted section text.
	StripDigits bool
}

// New returns an Extractor with the default normalizer and locator.
func New() Extractor {
	return Extractor{
		Normalizer: normalize.New(normalize.Options{}),
		Locator:    section.Default,
	}
}

func (e Extractor) threshold() int {
	if e.MinSectionBytes == 0 {
		return DefaultMinSectionBytes
	}
	return e.MinSectionBytes
}

func (e Extractor) locator() section.Locator {
	if len(e.Locator.Begin) == 0 {
		return section.Default
	}
	return e.Locator
}

// Short reports whether a non-empty match falls under the retry threshold.
// Length is counted in UTF-8 bytes of the pre-lower-cased text.
func (e Extractor) Short(m section.Match) bool {
	t := e.threshold()
	return !m.Empty() && t > 0 && len(m.Text) < t
}

// Next advances the state machine given the match produced in state s.
func (e Extractor) Next(s State, m section.Match) State {
	switch s {
	case Unattempted:
		if m.Empty() {
			return Failed
		}
		return FirstMatch
	case FirstMatch:
		if e.Short(m) {
			return Retrying
		}
		return Accepted
	case Retrying:
		if m.Empty() {
			return Failed
		}
		return Accepted
	}
	return s
}

// Find locates the section in already normalized text.
func (e Extractor) Find(text string) Result {
	loc := e.locator()
	res := Result{State: Unattempted}
	for {
		switch res.State {
		case Unattempted:
			res.Section = loc.Locate(text, 0)
			res.Attempts++
			res.State = e.Next(res.State, res.Section)
		case FirstMatch:
			res.State = e.Next(res.State, res.Section)
		case Retrying:
			first := res.Section
			res.Discarded = &first
			res.Section = loc.Locate(text, first.End)
			res.Attempts++
			res.State = e.Next(res.State, res.Section)
		default:
			return res
		}
	}
}

// Record is the persisted form of an extracted section.
type Record struct {
	Header  filing.Header
	Section string
}

// Bytes renders the header lines, three blank lines and the section text.
func (r Record) Bytes() []byte {
	var b strings.Builder
	for _, line := range r.Header.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\n\n\n")
	b.WriteString(r.Section)
	return []byte(b.String())
}

// Extract normalizes rendered text and returns the record for hdr. It returns
// ErrNoMatch, together with the Result describing the attempts, when no
// section was found.
func (e Extractor) Extract(rendered string, hdr filing.Header) (Record, Result, error) {
	res := e.Find(e.Normalizer.Normalize(rendered))
	if res.State != Accepted {
		return Record{}, res, ErrNoMatch
	}
	text := strings.ToLower(res.Section.Text)
	if e.StripDigits {
		text = normalize.New(normalize.Options{RemoveDigits: true}).FilterChars(text)
	}
	return Record{Header: hdr, Section: text}, res, nil
}
