package app

import (
    "os"
    "strconv"
    "strings"
)

// Environment variables read by ApplyEnvOverrides.
const (
    EnvInputDir           = "MDA_INPUT_DIR"
    EnvRenderedDir        = "MDA_RENDERED_DIR"
    EnvOutputDir          = "MDA_OUTPUT_DIR"
    EnvPDFDir             = "MDA_PDF_DIR"
    EnvLedger             = "MDA_LEDGER"
    EnvOverwriteRendered  = "MDA_OVERWRITE_RENDERED"
    EnvOverwriteExtracted = "MDA_OVERWRITE_EXTRACTED"
    EnvMinSectionBytes    = "MDA_MIN_SECTION_BYTES"
    EnvStripDigits        = "MDA_STRIP_DIGITS"
    EnvVerbose            = "VERBOSE"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding variables are set. Env takes precedence over a config file;
// flags applied afterwards take precedence over env.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv(EnvInputDir); v != "" { cfg.InputDir = v }
    if v := os.Getenv(EnvRenderedDir); v != "" { cfg.RenderedDir = v }
    if v := os.Getenv(EnvOutputDir); v != "" { cfg.OutputDir = v }
    if v := os.Getenv(EnvPDFDir); v != "" { cfg.PDFDir = v }
    if v := os.Getenv(EnvLedger); v != "" { cfg.LedgerPath = v }

    if v := strings.TrimSpace(os.Getenv(EnvMinSectionBytes)); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            cfg.MinSectionBytes = n
        }
    }

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.OverwriteRendered, EnvOverwriteRendered)
    setBool(&cfg.OverwriteExtracted, EnvOverwriteExtracted)
    setBool(&cfg.StripDigits, EnvStripDigits)
    setBool(&cfg.Verbose, EnvVerbose)
}
