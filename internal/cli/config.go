package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/nao1215/csvsql"
	"github.com/nao1215/csvsql/domain/model"
	"github.com/spf13/pflag"
)

// Default configuration values.
const (
	DefaultConfigFile = "csvsql.yaml"
	DefaultFormat     = "csv"
	envPrefix         = "CSVSQL_"
)

// errInvalidDelimiter is returned when --delimiter is not a single character
var errInvalidDelimiter = errors.New("delimiter must be a single character")

// Settings holds the options that may come from the config file, the
// environment or flags. Inputs and statements only come from flags.
type Settings struct {
	Database         string `koanf:"database"`
	Output           string `koanf:"output"`
	Force            bool   `koanf:"force"`
	Format           string `koanf:"format"`
	Compression      string `koanf:"compression"`
	Delimiter        string `koanf:"delimiter"`
	Sniff            bool   `koanf:"sniff"`
	ListTables       bool   `koanf:"list_tables"`
	Verbose          bool   `koanf:"verbose"`
	ProgressInterval int    `koanf:"progress_interval"`
}

// LoadSettings loads settings from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// cfgFile must exist when given; otherwise csvsql.yaml in the working
// directory is read if present.
func LoadSettings(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"format":            DefaultFormat,
		"compression":       "",
		"force":             false,
		"sniff":             false,
		"verbose":           false,
		"progress_interval": csvsql.DefaultProgressInterval,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables: CSVSQL_PROGRESS_INTERVAL -> progress_interval
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || orderedFlagNames[f.Name] || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &settings, nil
}

// Config maps the settings onto a run configuration without inputs or
// statements.
func (s *Settings) Config() (csvsql.Config, error) {
	format, err := model.ParseOutputFormat(s.Format)
	if err != nil {
		return csvsql.Config{}, err
	}
	compression, err := model.ParseCompressionType(s.Compression)
	if err != nil {
		return csvsql.Config{}, err
	}
	dialect, err := parseDelimiter(s.Delimiter)
	if err != nil {
		return csvsql.Config{}, err
	}

	return csvsql.Config{
		OutputPath:       s.Output,
		DatabasePath:     s.Database,
		Force:            s.Force,
		Format:           format,
		Compression:      compression,
		Dialect:          dialect,
		Sniff:            s.Sniff,
		ListTables:       s.ListTables,
		ProgressInterval: s.ProgressInterval,
	}, nil
}

// parseDelimiter accepts a single character, or "tab" / `\t` for a tab.
// An empty value keeps the dialect of the file extension.
func parseDelimiter(value string) (*csvsql.Dialect, error) {
	switch value {
	case "":
		return nil, nil
	case "tab", `\t`:
		d := csvsql.DialectTSV
		return &d, nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return nil, fmt.Errorf("%w: %q", errInvalidDelimiter, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return &csvsql.Dialect{Delimiter: r}, nil
}
