// Package filing enumerates filing documents and derives their provenance
// header from the filename convention
// <cik>_<form>_<filing-date>_<accession-number>.txt.
package filing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of filing documents.
const Ext = ".txt"

// Header labels, written verbatim before each value.
const (
	LabelCIK       = "CIK: "
	LabelForm      = "form: "
	LabelDate      = "filing-date: "
	LabelAccession = "accession-number: "
)

// ErrMalformedName is returned for filenames with fewer than four
// underscore-separated components.
var ErrMalformedName = errors.New("filing: malformed filename")

// Field is one labelled header value.
type Field struct {
	Label string
	Value string
}

// Header identifies a filing.
type Header struct {
	CIK        string
	Form       string
	FilingDate string
	Accession  string
}

// Fields returns the four header pairs in output order.
func (h Header) Fields() []Field {
	return []Field{
		{Label: LabelCIK, Value: h.CIK},
		{Label: LabelForm, Value: h.Form},
		{Label: LabelDate, Value: h.FilingDate},
		{Label: LabelAccession, Value: h.Accession},
	}
}

// Lines renders each field as label followed by value.
func (h Header) Lines() []string {
	fields := h.Fields()
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Label+f.Value)
	}
	return out
}

// ParseFilename splits a base filename into a Header. Anything after the
// third underscore belongs to the accession number.
func ParseFilename(name string) (Header, error) {
	base := strings.TrimSuffix(filepath.Base(name), Ext)
	parts := strings.SplitN(base, "_", 4)
	if len(parts) < 4 {
		return Header{}, fmt.Errorf("%w: %q", ErrMalformedName, name)
	}
	return Header{
		CIK:        parts[0],
		Form:       parts[1],
		FilingDate: parts[2],
		Accession:  parts[3],
	}, nil
}

// Filing is one input document.
type Filing struct {
	Name   string
	Path   string
	Header Header
	// Err is set when the name could not be parsed; Header is then zero.
	Err error
}

// List returns the filing documents directly under dir in name order.
// Malformed names are returned with Err set so callers can report them.
func List(dir string) ([]Filing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list filings: %w", err)
	}
	out := make([]Filing, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		hdr, perr := ParseFilename(e.Name())
		out = append(out, Filing{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Header: hdr,
			Err:    perr,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
