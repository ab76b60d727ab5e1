package mda

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperifyio/mdaextract/internal/filing"
	"github.com/hyperifyio/mdaextract/internal/section"
)

var testHeader = filing.Header{CIK: "1592706", Form: "10-K", FilingDate: "2019-11-15", Accession: "0000109177-19-000050"}

func longBody(words int) string {
	return strings.TrimSpace(strings.Repeat("Revenue increased year over year. ", words))
}

// tocAndBody renders a table of contents entry for Item 7 followed by the
// real section.
func tocAndBody(body string) string {
	return "Table of Contents\nItem 7.\nManagement's Discussion\n25\nItem 7A.\nMarket Risk\n40\n" +
		"Item 8.\nStatements\n50\nPart II\nItem 7.\nManagement's Discussion and Analysis\n" +
		body + "\nItem 7A.\nQuantitative Disclosures\nItem 8.\nFinancial Statements\n"
}

func TestExtract_AcceptsLongFirstMatch(t *testing.T) {
	rendered := "Cover\nItem 7.\n" + longBody(60) + "\nItem 7A.\nRisk\n"
	rec, res, err := New().Extract(rendered, testHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State != Accepted || res.Attempts != 1 || res.Retried() || res.Discarded != nil {
		t.Fatalf("expected single accepted attempt, got %+v", res)
	}
	if !strings.HasPrefix(rec.Section, "item 7. revenue increased") {
		t.Fatalf("expected lower-cased section, got %q", rec.Section[:40])
	}
}

func TestExtract_QuotedCrossReferenceDoesNotEndSection(t *testing.T) {
	rendered := "Cover\nItem 7.\n" + longBody(60) + "\n\u201cItem 7A\u201d\nMore body text here.\n" +
		"(Item 8)\nStill body.\nItem 8.\nFinancial Statements\n"
	rec, res, err := New().Extract(rendered, testHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempts != 1 || res.Section.EndRule != "item8" {
		t.Fatalf("expected the real item 8 heading to end the section, got %+v", res)
	}
	if !strings.Contains(rec.Section, "more body text here.") || !strings.HasSuffix(rec.Section, "still body.") {
		t.Fatalf("section ended at a cross reference: %q", rec.Section)
	}
}

func TestExtract_RetriesShortFirstMatch(t *testing.T) {
	rendered := tocAndBody(longBody(60))
	rec, res, err := New().Extract(rendered, testHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempts != 2 || res.State != Accepted {
		t.Fatalf("expected retry, got %+v", res)
	}
	if res.Discarded == nil || !strings.Contains(res.Discarded.Text, "MANAGEMENT S DISCUSSION 25") {
		t.Fatalf("expected the table of contents hit to be discarded, got %+v", res.Discarded)
	}
	if strings.Contains(rec.Section, "table of contents") {
		t.Fatalf("section should not include the table of contents")
	}
	if !strings.HasPrefix(rec.Section, "item 7. management s discussion and analysis revenue") {
		t.Fatalf("unexpected section start %q", rec.Section[:60])
	}
	if strings.Contains(rec.Section, "quantitative") {
		t.Fatalf("section should stop at item 7a")
	}
}

func TestExtract_RetryResultWinsEvenWhenEmpty(t *testing.T) {
	rendered := "Cover\nItem 7.\nSee elsewhere.\nItem 7A.\nRisk\n"
	_, res, err := New().Extract(rendered, testHeader)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if res.Attempts != 2 || res.State != Failed || res.Discarded == nil {
		t.Fatalf("expected failed retry, got %+v", res)
	}
	if !res.Section.Empty() {
		t.Fatalf("expected empty final section, got %q", res.Section.Text)
	}
}

func TestExtract_NoItem7(t *testing.T) {
	_, res, err := New().Extract("Item 1.\nBusiness\nItem 8.\nStatements", testHeader)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if res.Attempts != 1 || res.State != Failed {
		t.Fatalf("expected one failed attempt, got %+v", res)
	}
}

func TestExtract_ThresholdOverride(t *testing.T) {
	rendered := "Cover\nItem 7.\nShort but accepted.\nItem 7A.\nRisk\n"
	e := New()
	e.MinSectionBytes = 10
	if _, res, err := e.Extract(rendered, testHeader); err != nil || res.Attempts != 1 {
		t.Fatalf("expected single attempt with small threshold, got %+v %v", res, err)
	}
	e.MinSectionBytes = -1
	if _, res, err := e.Extract(rendered, testHeader); err != nil || res.Retried() {
		t.Fatalf("negative threshold disables retry, got %+v %v", res, err)
	}
}

func TestExtract_StripDigits(t *testing.T) {
	rendered := "Cover\nItem 7.\nSales were 2019 figures.\nItem 7A.\n"
	e := New()
	e.MinSectionBytes = -1
	e.StripDigits = true
	rec, _, err := e.Extract(rendered, testHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsAny(rec.Section, "0123456789") {
		t.Fatalf("digits survived: %q", rec.Section)
	}
	if !strings.HasPrefix(rec.Section, "item  . sales were") {
		t.Fatalf("unexpected section %q", rec.Section)
	}
}

func TestNext_Transitions(t *testing.T) {
	e := New()
	short := section.Match{Text: "ITEM 7. SHORT", End: 20}
	long := section.Match{Text: strings.Repeat("X", DefaultMinSectionBytes), End: 2000}
	cases := []struct {
		from State
		m    section.Match
		want State
	}{
		{Unattempted, section.Match{}, Failed},
		{Unattempted, short, FirstMatch},
		{FirstMatch, short, Retrying},
		{FirstMatch, long, Accepted},
		{Retrying, section.Match{}, Failed},
		{Retrying, short, Accepted},
		{Accepted, section.Match{}, Accepted},
		{Failed, long, Failed},
	}
	for _, tc := range cases {
		if got := e.Next(tc.from, tc.m); got != tc.want {
			t.Fatalf("%s with %d bytes: got %s want %s", tc.from, len(tc.m.Text), got, tc.want)
		}
	}
}

func TestRecord_Bytes(t *testing.T) {
	got := string(Record{Header: testHeader, Section: "item 7. body"}.Bytes())
	want := "CIK: 1592706\nform: 10-K\nfiling-date: 2019-11-15\naccession-number: 0000109177-19-000050\n\n\n\nitem 7. body"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
