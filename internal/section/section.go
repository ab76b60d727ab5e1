// Package section finds the Item 7 (MD&A) section in normalized filing text.
//
// Boundaries are found with prioritized rule lists: rules are tried in list
// order and the first rule that occurs anywhere in the text wins, even when a
// later rule would match at an earlier position. The order encodes which
// header formatting variant is preferred, not where it appears.
package section

import "strings"

// Rule is a literal anchor marking a section boundary.
type Rule struct {
	Name   string
	Anchor string
}

// Rules is an ordered list of anchors; earlier entries take priority.
type Rules []Rule

// Find returns the first rule in list order that occurs in text at or after
// from, along with the offset of its leftmost occurrence.
func (rs Rules) Find(text string, from int) (Rule, int, bool) {
	if from < 0 {
		from = 0
	}
	if from > len(text) {
		return Rule{}, -1, false
	}
	for _, r := range rs {
		if i := strings.Index(text[from:], r.Anchor); i >= 0 {
			return r, from + i, true
		}
	}
	return Rule{}, -1, false
}

var (
	// Item7Begin lists the accepted Item 7 heading variants.
	Item7Begin = Rules{
		{Name: "item7-period", Anchor: "\nITEM 7."},
		{Name: "item7-emdash", Anchor: "\nITEM 7 —"},
		{Name: "item7-endash", Anchor: "\nITEM 7 –"},
		{Name: "item7-colon", Anchor: "\nITEM 7:"},
		{Name: "item7-space", Anchor: "\nITEM 7 "},
		{Name: "item7-break", Anchor: "\nITEM 7\n"},
	}
	// Item7End marks the section that normally follows MD&A.
	Item7End = Rules{
		{Name: "item7a", Anchor: "\nITEM 7A"},
	}
	// RetryEnd is appended to the end rules on a second attempt, for filings
	// without Item 7A whose first hit was a table of contents entry.
	RetryEnd = Rules{
		{Name: "item7-bare", Anchor: "\nITEM 7"},
	}
	// Item8Fallback ends the section when no end rule matched.
	Item8Fallback = Rules{
		{Name: "item8", Anchor: "\nITEM 8"},
	}
)

// Locator holds the rule lists used to bound a section.
type Locator struct {
	Begin    Rules
	End      Rules
	RetryEnd Rules
	Fallback Rules
}

// Default is the Item 7 locator.
var Default = Locator{
	Begin:    Item7Begin,
	End:      Item7End,
	RetryEnd: RetryEnd,
	Fallback: Item8Fallback,
}

// Match is the outcome of one Locate call. Text is empty and End is zero when
// nothing was found.
type Match struct {
	// Text is the trimmed section, heading included, with blank-line
	// paragraph breaks flattened to single spaces.
	Text string
	// End is the offset of the end anchor, relative to the start offset
	// passed to Locate.
	End int
	// BeginRule and EndRule name the anchors that bounded the section.
	BeginRule string
	EndRule   string

	heading string
}

// Empty reports whether no section was found.
func (m Match) Empty() bool { return m.Text == "" }

// Body returns Text with the leading heading anchor removed.
func (m Match) Body() string {
	if m.Empty() {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(m.Text, m.heading))
}

// Locate runs the Default locator.
func Locate(text string, start int) Match {
	return Default.Locate(text, start)
}

// Locate searches text[start:] for the section. A non-zero start marks a
// retry, which additionally accepts the RetryEnd anchors.
func (l Locator) Locate(text string, start int) Match {
	if start < 0 {
		start = 0
	}
	if start >= len(text) {
		return Match{}
	}
	text = text[start:]

	beginRule, begin, ok := l.Begin.Find(text, 0)
	if !ok {
		return Match{}
	}

	ends := l.End
	if start != 0 {
		ends = append(append(Rules{}, l.End...), l.RetryEnd...)
	}
	endRule, end, ok := ends.Find(text, begin+1)
	if !ok {
		endRule, end, ok = l.Fallback.Find(text, begin+1)
	}
	if !ok || end <= begin {
		return Match{}
	}

	body := strings.TrimSpace(text[begin:end])
	body = strings.ReplaceAll(body, "\n\n", " ")
	if body == "" {
		return Match{}
	}
	return Match{
		Text:      body,
		End:       end,
		BeginRule: beginRule.Name,
		EndRule:   endRule.Name,
		heading:   strings.TrimSpace(beginRule.Anchor),
	}
}
