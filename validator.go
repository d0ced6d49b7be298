package csvsql

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/csvsql/domain/model"
)

// validator checks a Config before any database work starts
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateConfig checks, in order: there is something to run, the output
// may be written, and every input and script file exists.
func (v *validator) validateConfig(cfg *Config) error {
	if len(cfg.Statements) == 0 && !cfg.ListTables {
		return ErrNoStatements
	}

	if err := v.validateOutput(cfg.OutputPath, cfg.Force); err != nil {
		return err
	}

	for _, in := range cfg.Inputs {
		if err := v.validateFile(in.Path); err != nil {
			return err
		}
		if !model.IsSupportedFile(in.Path) {
			return fmt.Errorf("%w: %s", ErrUnsupportedFormat, in.Path)
		}
	}

	for _, src := range cfg.Statements {
		if src.Kind != StatementFile {
			continue
		}
		if err := v.validateFile(src.Value); err != nil {
			return err
		}
	}
	return nil
}

// validateFile requires path to name an existing regular file
func (v *validator) validateFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("csvsql: path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}
	return nil
}

// validateOutput refuses to overwrite an existing output file unless force is set
func (v *validator) validateOutput(path string, force bool) error {
	if path == "" || force {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check output file: %w", err)
	}
	if info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	return nil
}

// dedupInputs drops repeated inputs with the same header mode and path,
// keeping the first occurrence.
func dedupInputs(inputs []Input) []Input {
	seen := make(map[Input]bool, len(inputs))
	result := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if seen[in] {
			continue
		}
		seen[in] = true
		result = append(result, in)
	}
	return result
}
