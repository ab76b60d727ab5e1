package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Pointer fields
// distinguish "unset" from an explicit false or zero.
type FileConfig struct {
    Dirs struct {
        Input    string `yaml:"input" json:"input"`
        Rendered string `yaml:"rendered" json:"rendered"`
        Output   string `yaml:"output" json:"output"`
        PDF      string `yaml:"pdf" json:"pdf"`
    } `yaml:"dirs" json:"dirs"`

    Overwrite struct {
        Rendered  *bool `yaml:"rendered" json:"rendered"`
        Extracted *bool `yaml:"extracted" json:"extracted"`
    } `yaml:"overwrite" json:"overwrite"`

    Extract struct {
        MinSectionBytes *int  `yaml:"minSectionBytes" json:"minSectionBytes"`
        StripDigits     *bool `yaml:"stripDigits" json:"stripDigits"`
    } `yaml:"extract" json:"extract"`

    Ledger  string `yaml:"ledger" json:"ledger"`
    Verbose *bool  `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs before env
// and flags, which take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if fc.Dirs.Input != "" { cfg.InputDir = fc.Dirs.Input }
    if fc.Dirs.Rendered != "" { cfg.RenderedDir = fc.Dirs.Rendered }
    if fc.Dirs.Output != "" { cfg.OutputDir = fc.Dirs.Output }
    if fc.Dirs.PDF != "" { cfg.PDFDir = fc.Dirs.PDF }

    if fc.Overwrite.Rendered != nil { cfg.OverwriteRendered = *fc.Overwrite.Rendered }
    if fc.Overwrite.Extracted != nil { cfg.OverwriteExtracted = *fc.Overwrite.Extracted }

    if fc.Extract.MinSectionBytes != nil { cfg.MinSectionBytes = *fc.Extract.MinSectionBytes }
    if fc.Extract.StripDigits != nil { cfg.StripDigits = *fc.Extract.StripDigits }

    if fc.Ledger != "" { cfg.LedgerPath = fc.Ledger }
    if fc.Verbose != nil { cfg.Verbose = *fc.Verbose }
}

// ValidateConfig performs minimal validation of required settings.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.InputDir) == "" {
        return errors.New("config: input dir is required")
    }
    if strings.TrimSpace(cfg.RenderedDir) == "" {
        return errors.New("config: rendered dir is required")
    }
    if strings.TrimSpace(cfg.OutputDir) == "" {
        return errors.New("config: output dir is required")
    }
    in := filepath.Clean(cfg.InputDir)
    if in == filepath.Clean(cfg.RenderedDir) || in == filepath.Clean(cfg.OutputDir) {
        return errors.New("config: rendered and output dirs must differ from the input dir")
    }
    if filepath.Clean(cfg.RenderedDir) == filepath.Clean(cfg.OutputDir) {
        return errors.New("config: rendered and output dirs must differ")
    }
    return nil
}
