package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/mdaextract/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("mdaextract failed")
		os.Exit(1)
	}
}

type flags struct {
	configPath         string
	envFiles           []string
	inputDir           string
	renderedDir        string
	outputDir          string
	pdfDir             string
	ledgerPath         string
	overwriteRendered  bool
	overwriteExtracted bool
	minSectionBytes    int
	stripDigits        bool
	verbose            bool
}

func rootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "mdaextract",
		Short: "Extract Item 7 (MD&A) from 10-K filings",
		Long: `mdaextract renders each filing in the input directory to plain text,
normalizes it, locates Item 7 (Management's Discussion and Analysis) and
writes the section with a provenance header derived from the filename
<cik>_<form>_<filing-date>_<accession-number>.txt.

With no flags it reads ./data/form10k, writes rendered text to
./data/form10k.parsed and sections to ./data/mda.`,
		Version:       app.VersionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			_, err = a.Run(cmd.Context())
			return err
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to a YAML or JSON config file")
	pf.StringSliceVar(&f.envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading MDA_* variables")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose logging")
	pf.IntVar(&f.minSectionBytes, "min-section-bytes", 0, "Retry when the first match is shorter than this many bytes (default 1000, negative disables)")
	pf.BoolVar(&f.stripDigits, "strip-digits", false, "Blank digits in the extracted section")

	fl := cmd.Flags()
	fl.StringVar(&f.inputDir, "input", "", "Directory of filing documents (default "+app.DefaultInputDir+")")
	fl.StringVar(&f.renderedDir, "rendered", "", "Directory for rendered plain text (default "+app.DefaultRenderedDir+")")
	fl.StringVar(&f.outputDir, "output", "", "Directory for extracted sections (default "+app.DefaultOutputDir+")")
	fl.StringVar(&f.pdfDir, "pdf", "", "Also write a PDF copy of each section to this directory")
	fl.StringVar(&f.ledgerPath, "ledger", "", "SQLite file recording the outcome of every filing")
	fl.BoolVar(&f.overwriteRendered, "overwrite-rendered", true, "Re-render filings whose rendered text already exists")
	fl.BoolVar(&f.overwriteExtracted, "overwrite-extracted", true, "Re-extract filings whose section file already exists")

	cmd.AddCommand(inspectCmd(&f))
	return cmd
}

// loadConfig layers defaults, config file, environment and the flags the
// user actually set, in increasing precedence.
func loadConfig(cmd *cobra.Command, f flags) (app.Config, error) {
	if err := app.LoadEnvFiles(f.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.DefaultConfig()
	if strings.TrimSpace(f.configPath) != "" {
		fc, err := app.LoadConfigFile(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.InputDir = f.inputDir
	}
	if changed("rendered") {
		cfg.RenderedDir = f.renderedDir
	}
	if changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if changed("pdf") {
		cfg.PDFDir = f.pdfDir
	}
	if changed("ledger") {
		cfg.LedgerPath = f.ledgerPath
	}
	if changed("overwrite-rendered") {
		cfg.OverwriteRendered = f.overwriteRendered
	}
	if changed("overwrite-extracted") {
		cfg.OverwriteExtracted = f.overwriteExtracted
	}
	if changed("min-section-bytes") {
		cfg.MinSectionBytes = f.minSectionBytes
	}
	if changed("strip-digits") {
		cfg.StripDigits = f.stripDigits
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return cfg, nil
}

func inspectCmd(f *flags) *cobra.Command {
	var showSection bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Trace the extraction of one filing without writing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}
			a, err := app.NewInspector(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := a.Inspect(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "file:             %s\n", in.File)
			if in.Title != "" {
				fmt.Fprintf(w, "title:            %s\n", in.Title)
			}
			if in.HeaderErr != nil {
				fmt.Fprintf(w, "header:           %v\n", in.HeaderErr)
			} else {
				for _, line := range in.Header.Lines() {
					fmt.Fprintf(w, "header:           %s\n", line)
				}
			}
			fmt.Fprintf(w, "rendered chars:   %d\n", in.RenderedChars)
			fmt.Fprintf(w, "normalized chars: %d\n", in.NormalizedChars)
			fmt.Fprintf(w, "attempts:         %d\n", in.Result.Attempts)
			fmt.Fprintf(w, "state:            %s\n", in.Result.State)
			if d := in.Result.Discarded; d != nil {
				fmt.Fprintf(w, "discarded:        %d bytes (%s..%s)\n", len(d.Text), d.BeginRule, d.EndRule)
			}
			if s := in.Result.Section; !s.Empty() {
				fmt.Fprintf(w, "section:          %d bytes (%s..%s)\n", len(s.Text), s.BeginRule, s.EndRule)
			}
			if in.Err != nil {
				return fmt.Errorf("%s: %w", in.File, in.Err)
			}
			if showSection {
				fmt.Fprintf(w, "\n%s\n", in.Record.Bytes())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSection, "print", false, "Print the output record after the trace")
	return cmd
}
