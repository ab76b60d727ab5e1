package section

import (
	"strings"
	"testing"
)

func TestLocate_NoItem7ReturnsEmpty(t *testing.T) {
	inputs := []string{
		"",
		"ANNUAL REPORT\n\nITEM 1. BUSINESS\n\nITEM 8. STATEMENTS",
		"SEE NOTE\n\nITEM 70 IS NOT A HEADER",
		"ITEM 7. AT THE VERY START HAS NO LINE BREAK\n\nITEM 7A",
	}
	for _, in := range inputs {
		m := Locate(in, 0)
		if !m.Empty() || m.End != 0 || m.Text != "" {
			t.Fatalf("expected empty match for %q, got %+v", in, m)
		}
	}
}

func TestLocate_BoundedByItem7A(t *testing.T) {
	prefix := "COVER PAGE\n\nITEM 1. BUSINESS\n\nWE MAKE THINGS"
	body := "MANAGEMENT S DISCUSSION\n\nRESULTS OF OPERATIONS IMPROVED"
	text := prefix + "\nITEM 7.\n" + body + "\nITEM 7A" + " QUANTITATIVE\n\nITEM 8. STATEMENTS"

	m := Locate(text, 0)
	if m.Empty() {
		t.Fatalf("expected a match")
	}
	wantEnd := strings.Index(text, "\nITEM 7A")
	if m.End != wantEnd {
		t.Fatalf("end: got %d want %d", m.End, wantEnd)
	}
	if m.Body() != "MANAGEMENT S DISCUSSION RESULTS OF OPERATIONS IMPROVED" {
		t.Fatalf("unexpected body %q", m.Body())
	}
	if !strings.HasPrefix(m.Text, "ITEM 7.") {
		t.Fatalf("expected text to keep the heading, got %q", m.Text)
	}
	if m.BeginRule != "item7-period" || m.EndRule != "item7a" {
		t.Fatalf("unexpected rules %q/%q", m.BeginRule, m.EndRule)
	}
}

func TestLocate_FallsBackToItem8(t *testing.T) {
	m := Locate("PREAMBLE\nITEM 7.\nAAA BBB\nITEM 8\nFINANCIAL STATEMENTS", 0)
	if m.Body() != "AAA BBB" {
		t.Fatalf("unexpected body %q", m.Body())
	}
	if m.EndRule != "item8" {
		t.Fatalf("expected item8 end rule, got %q", m.EndRule)
	}
}

func TestLocate_BeginRulePriorityBeatsPosition(t *testing.T) {
	text := "X\n\nITEM 7 OVERVIEW MENTION\n\nITEM 7. MANAGEMENT S DISCUSSION\n\nREAL BODY\n\nITEM 7A. RISK"
	m := Locate(text, 0)
	if m.BeginRule != "item7-period" {
		t.Fatalf("expected the period variant to win, got %q", m.BeginRule)
	}
	if m.Text != "ITEM 7. MANAGEMENT S DISCUSSION REAL BODY" {
		t.Fatalf("unexpected text %q", m.Text)
	}
}

func TestLocate_HeadingVariants(t *testing.T) {
	cases := []struct {
		text string
		rule string
	}{
		{"A\nITEM 7: MD&A\n\nBODY\nITEM 7A", "item7-colon"},
		{"A\nITEM 7 — MD&A\n\nBODY\nITEM 7A", "item7-emdash"},
		{"A\nITEM 7 MD&A\n\nBODY\nITEM 7A", "item7-space"},
		{"A\nITEM 7\nMD&A\n\nBODY\nITEM 7A", "item7-break"},
	}
	for _, tc := range cases {
		m := Locate(tc.text, 0)
		if m.BeginRule != tc.rule {
			t.Fatalf("%q: got rule %q want %q", tc.text, m.BeginRule, tc.rule)
		}
		if m.Body() == "" {
			t.Fatalf("%q: empty body", tc.text)
		}
	}
}

func TestLocate_EndAnchorBeforeBeginIsNotFound(t *testing.T) {
	inputs := []string{
		"X\nITEM 7A. RISK\n\nITEM 7. BODY WITHOUT END",
		"X\nITEM 8. STATEMENTS\n\nITEM 7. BODY WITHOUT END",
	}
	for _, in := range inputs {
		if m := Locate(in, 0); !m.Empty() || m.End != 0 {
			t.Fatalf("expected empty match for %q, got %+v", in, m)
		}
	}
}

func TestLocate_RetryAcceptsBareItem7(t *testing.T) {
	text := "XX\n\nITEM 7. SHORT REF\n\nITEM 7. MD&A BODY\n\nITEM 8. STATEMENTS"

	first := Locate(text, 0)
	if first.Text != "ITEM 7. SHORT REF ITEM 7. MD&A BODY" || first.EndRule != "item8" {
		t.Fatalf("first attempt should ignore bare ITEM 7, got %+v", first)
	}

	retry := Locate(text, 1)
	if retry.Text != "ITEM 7. SHORT REF" || retry.EndRule != "item7-bare" {
		t.Fatalf("retry should stop at bare ITEM 7, got %+v", retry)
	}
	if want := strings.Index(text[1:], "\nITEM 7. MD&A"); retry.End != want {
		t.Fatalf("retry end is relative to start: got %d want %d", retry.End, want)
	}
}

func TestLocate_RetryStillPrefersItem7A(t *testing.T) {
	text := "X\n\nITEM 7. A\n\nITEM 7. B\n\nITEM 7A. RISK"
	m := Locate(text, 1)
	if m.EndRule != "item7a" || m.Text != "ITEM 7. A ITEM 7. B" {
		t.Fatalf("unexpected retry match %+v", m)
	}
}

func TestLocate_StartOutOfRange(t *testing.T) {
	text := "X\nITEM 7. BODY\nITEM 7A"
	if m := Locate(text, len(text)+10); !m.Empty() || m.End != 0 {
		t.Fatalf("expected empty match, got %+v", m)
	}
	if m := Locate(text, -3); m.Body() != "BODY" {
		t.Fatalf("negative start should behave like zero, got %+v", m)
	}
}

func TestRules_FindUsesListOrder(t *testing.T) {
	rs := Rules{{Name: "late", Anchor: "ZZ"}, {Name: "early", Anchor: "AA"}}
	r, at, ok := rs.Find("AA ZZ", 0)
	if !ok || r.Name != "late" || at != 3 {
		t.Fatalf("unexpected %v %d %v", r, at, ok)
	}
	if _, _, ok := rs.Find("AA ZZ", 10); ok {
		t.Fatalf("expected no match past the end")
	}
}
