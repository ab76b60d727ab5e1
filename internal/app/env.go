package app

import (
    "bufio"
    "errors"
    "os"
    "strings"
)

// LoadEnvFiles loads dotenv files of KEY=VALUE pairs into the process
// environment. Variables already set to a non-empty value are left alone,
// so the real environment and earlier files win over later ones. Lines starting with '#' and blank
// lines are ignored. Values are not expanded.
func LoadEnvFiles(paths ...string) error {
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        if err := loadEnvFile(p); err != nil {
            // Missing files are not fatal; continue to next path
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}

func loadEnvFile(path string) error {
    f, err := os.Open(path)
    if err != nil {
        return err
    }
    defer f.Close()

    scanner := bufio.NewScanner(f)
    for scanner.Scan() {
        key, val, ok := parseEnvLine(scanner.Text())
        if !ok {
            continue
        }
        if cur, set := os.LookupEnv(key); set && cur != "" {
            continue
        }
        _ = os.Setenv(key, val)
    }
    return scanner.Err()
}

// parseEnvLine splits KEY=VALUE, accepting an optional "export " prefix and
// stripping one pair of surrounding quotes from the value.
func parseEnvLine(line string) (string, string, bool) {
    line = strings.TrimSpace(line)
    if line == "" || strings.HasPrefix(line, "#") {
        return "", "", false
    }
    line = strings.TrimPrefix(line, "export ")
    key, val, found := strings.Cut(line, "=")
    key = strings.TrimSpace(key)
    if !found || key == "" {
        return "", "", false
    }
    val = strings.TrimSpace(val)
    if len(val) >= 2 {
        if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
            val = val[1 : len(val)-1]
        }
    }
    return key, val, true
}
