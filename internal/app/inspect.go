package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperifyio/mdaextract/internal/filing"
	"github.com/hyperifyio/mdaextract/internal/mda"
)

// Inspection is the trace of extracting one document without writing files.
type Inspection struct {
	File            string
	Title           string
	Header          filing.Header
	HeaderErr       error
	RenderedChars   int
	NormalizedChars int
	Result          mda.Result
	Record          mda.Record
	Err             error
}

// NewInspector returns an App for Inspect. It never opens the ledger, so
// inspecting leaves the filesystem untouched.
func NewInspector(cfg Config) (*App, error) {
	cfg.LedgerPath = ""
	return New(cfg)
}

// Inspect renders, normalizes and locates the section of the document at
// path. Extraction failures are reported in Inspection.Err; only read and
// render errors are returned.
func (a *App) Inspect(path string) (Inspection, error) {
	in := Inspection{File: filepath.Base(path)}
	in.Header, in.HeaderErr = filing.ParseFilename(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read filing: %w", err)
	}
	doc, err := a.renderer.Render(raw)
	if err != nil {
		return in, fmt.Errorf("render %s: %w", in.File, err)
	}
	in.Title = doc.Title
	in.RenderedChars = len(doc.Text)
	in.NormalizedChars = len(a.extractor.Normalizer.Normalize(doc.Text))
	in.Record, in.Result, in.Err = a.extractor.Extract(doc.Text, in.Header)
	return in, nil
}
