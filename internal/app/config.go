package app

import "github.com/hyperifyio/mdaextract/internal/mda"

// Default directory layout, relative to the working directory.
const (
	DefaultInputDir    = "./data/form10k"
	DefaultRenderedDir = "./data/form10k.parsed"
	DefaultOutputDir   = "./data/mda"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Directories
	InputDir    string
	RenderedDir string
	OutputDir   string

	// Reprocessing: when false, an existing file is kept and its step skipped.
	OverwriteRendered  bool
	OverwriteExtracted bool

	// Extraction
	MinSectionBytes int
	StripDigits     bool

	// Optional outputs
	PDFDir     string
	LedgerPath string

	Verbose bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		InputDir:           DefaultInputDir,
		RenderedDir:        DefaultRenderedDir,
		OutputDir:          DefaultOutputDir,
		OverwriteRendered:  true,
		OverwriteExtracted: true,
		MinSectionBytes:    mda.DefaultMinSectionBytes,
	}
}
