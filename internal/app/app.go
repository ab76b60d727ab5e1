package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/mdaextract/internal/extract"
	"github.com/hyperifyio/mdaextract/internal/filing"
	"github.com/hyperifyio/mdaextract/internal/ledger"
	"github.com/hyperifyio/mdaextract/internal/mda"
	"github.com/hyperifyio/mdaextract/internal/normalize"
	"github.com/hyperifyio/mdaextract/internal/section"
)

type App struct {
	cfg       Config
	renderer  extract.Renderer
	extractor mda.Extractor
	ledger    *ledger.Ledger
}

// Summary counts per-filing outcomes of one Run.
type Summary struct {
	Processed int
	Extracted int
	NoMatch   int
	Skipped   int
	Malformed int
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		renderer: extract.HTMLRenderer{},
		extractor: mda.Extractor{
			Normalizer:      normalize.New(normalize.Options{}),
			Locator:         section.Default,
			MinSectionBytes: cfg.MinSectionBytes,
			StripDigits:     cfg.StripDigits,
		},
	}
	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		a.ledger = l
	}
	return a, nil
}

func (a *App) Close() error {
	return a.ledger.Close()
}

// Run processes every filing in InputDir in name order. A filing without a
// recognizable MD&A section is reported and skipped; I/O errors abort the
// batch and are returned along with the counts so far.
func (a *App) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	filings, err := filing.List(a.cfg.InputDir)
	if err != nil {
		return sum, err
	}
	for _, dir := range []string{a.cfg.RenderedDir, a.cfg.OutputDir, a.cfg.PDFDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sum, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	for _, f := range filings {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Processed++
		log.Info().Str("file", f.Name).Msg("processing")
		if f.Err != nil {
			log.Warn().Err(f.Err).Str("file", f.Name).Msg("skipping filing with malformed name")
			sum.Malformed++
			if err := a.record(ctx, f, ledger.StatusMalformed, mda.Result{}, ""); err != nil {
				return sum, err
			}
			continue
		}
		status, err := a.processFiling(ctx, f)
		if err != nil {
			return sum, err
		}
		switch status {
		case ledger.StatusExtracted:
			sum.Extracted++
		case ledger.StatusNoMatch:
			sum.NoMatch++
		case ledger.StatusSkipped:
			sum.Skipped++
		}
	}
	log.Info().
		Int("processed", sum.Processed).
		Int("extracted", sum.Extracted).
		Int("no_match", sum.NoMatch).
		Int("skipped", sum.Skipped).
		Int("malformed", sum.Malformed).
		Msg("batch complete")
	return sum, nil
}

func (a *App) processFiling(ctx context.Context, f filing.Filing) (string, error) {
	text, err := a.renderFiling(f)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(a.cfg.OutputDir, f.Name)
	if !a.cfg.OverwriteExtracted && fileExists(outPath) {
		log.Info().Str("out", outPath).Msg("already exists; skipping MD&A extraction")
		return ledger.StatusSkipped, a.record(ctx, f, ledger.StatusSkipped, mda.Result{}, outPath)
	}

	rec, res, err := a.extractor.Extract(text, f.Header)
	log.Debug().
		Str("file", f.Name).
		Str("state", res.State.String()).
		Int("attempts", res.Attempts).
		Int("bytes", len(res.Section.Text)).
		Str("begin_rule", res.Section.BeginRule).
		Str("end_rule", res.Section.EndRule).
		Msg("locate")
	if errors.Is(err, mda.ErrNoMatch) {
		log.Warn().Str("file", f.Name).Int("attempts", res.Attempts).Msg("MD&A section not found")
		return ledger.StatusNoMatch, a.record(ctx, f, ledger.StatusNoMatch, res, "")
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(outPath, rec.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write MD&A: %w", err)
	}
	log.Info().Str("out", outPath).Bool("retried", res.Retried()).Msg("wrote MD&A")

	if a.cfg.PDFDir != "" {
		pdfPath := filepath.Join(a.cfg.PDFDir, strings.TrimSuffix(f.Name, filing.Ext)+".pdf")
		if err := writeSectionPDF(rec, pdfPath); err != nil {
			return "", fmt.Errorf("write MD&A pdf: %w", err)
		}
		log.Info().Str("out", pdfPath).Msg("wrote MD&A pdf")
	}
	return ledger.StatusExtracted, a.record(ctx, f, ledger.StatusExtracted, res, outPath)
}

// renderFiling returns the rendered text of f, reusing the rendered file when
// overwriting is disabled and it already exists.
func (a *App) renderFiling(f filing.Filing) (string, error) {
	renderedPath := filepath.Join(a.cfg.RenderedDir, f.Name)
	if !a.cfg.OverwriteRendered && fileExists(renderedPath) {
		log.Info().Str("out", renderedPath).Msg("already exists; skipping render")
		b, err := os.ReadFile(renderedPath)
		if err != nil {
			return "", fmt.Errorf("read rendered: %w", err)
		}
		return string(b), nil
	}

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read filing: %w", err)
	}
	doc, err := a.renderer.Render(raw)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", f.Name, err)
	}
	if err := os.WriteFile(renderedPath, []byte(doc.Text), 0o644); err != nil {
		return "", fmt.Errorf("write rendered: %w", err)
	}
	log.Debug().Str("out", renderedPath).Str("title", doc.Title).Int("chars", len(doc.Text)).Msg("wrote rendered text")
	return doc.Text, nil
}

func (a *App) record(ctx context.Context, f filing.Filing, status string, res mda.Result, outPath string) error {
	if a.ledger == nil {
		return nil
	}
	return a.ledger.Record(ctx, ledger.Entry{
		File:         f.Name,
		CIK:          f.Header.CIK,
		Form:         f.Header.Form,
		FilingDate:   f.Header.FilingDate,
		Accession:    f.Header.Accession,
		Status:       status,
		Attempts:     res.Attempts,
		Retried:      res.Retried(),
		SectionBytes: len(res.Section.Text),
		OutputPath:   outPath,
	})
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
