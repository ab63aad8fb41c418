// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// OutputText renders a styled, human-readable report.
	OutputText OutputFormat = "text"
	// OutputJSON prints the plugin response document as JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML prints the plugin response document as YAML.
	OutputYAML OutputFormat = "yaml"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultPipelinePattern selects pipeline definition files.
	DefaultPipelinePattern FilePattern = "**/*.gopipeline.json"
	// DefaultEnvironmentPattern selects environment definition files.
	DefaultEnvironmentPattern FilePattern = "**/*.goenvironment.json"
	// DefaultTargetVersion is the response format version.
	DefaultTargetVersion = 1
	// DefaultWatchDebounce is the quiet period before watch mode re-parses.
	DefaultWatchDebounce = "500ms"
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidFilePattern is returned for an empty or whitespace-only pattern.
	ErrInvalidFilePattern = errors.New("invalid file pattern")
	// ErrInvalidTargetVersion is returned for a target version below 1.
	ErrInvalidTargetVersion = errors.New("invalid target version")
	// ErrInvalidWatchConfig is the sentinel wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how parse results are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// FilePattern is a doublestar glob relative to the parsed directory.
	FilePattern string

	// InvalidFilePatternError is returned for an empty or whitespace-only pattern.
	InvalidFilePatternError struct {
		Field string
		Value FilePattern
	}

	// InvalidTargetVersionError is returned for a target version below 1.
	InvalidTargetVersionError struct {
		Value int
	}

	// InvalidWatchConfigError is returned when the watch section is invalid.
	InvalidWatchConfigError struct {
		Debounce string
		Cause    error
	}

	// InvalidConfigError aggregates the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the pipeconf configuration.
	Config struct {
		// PipelinePattern selects pipeline files below the parsed directory.
		PipelinePattern FilePattern `json:"pipeline_pattern" mapstructure:"pipeline_pattern" toml:"pipeline_pattern"`
		// EnvironmentPattern selects environment files below the parsed directory.
		EnvironmentPattern FilePattern `json:"environment_pattern" mapstructure:"environment_pattern" toml:"environment_pattern"`
		// Strict checks accepted definitions against the built-in schemas.
		Strict bool `json:"strict" mapstructure:"strict" toml:"strict"`
		// TargetVersion is reported in the response document.
		TargetVersion int `json:"target_version" mapstructure:"target_version" toml:"target_version"`
		// Output is the default output format of `pipeconf parse`.
		Output OutputFormat `json:"output" mapstructure:"output" toml:"output"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
		// Watch configures `pipeconf watch`.
		Watch WatchConfig `json:"watch" mapstructure:"watch" toml:"watch"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// ColorScheme selects the glamour style for issue guides.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is a Go duration string.
		Debounce string `json:"debounce" mapstructure:"debounce" toml:"debounce"`
		// ClearScreen clears the terminal before each re-parse.
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen" toml:"clear_screen"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PipelinePattern:    DefaultPipelinePattern,
		EnvironmentPattern: DefaultEnvironmentPattern,
		Strict:             false,
		TargetVersion:      DefaultTargetVersion,
		Output:             OutputText,
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
		Watch: WatchConfig{
			Debounce:    DefaultWatchDebounce,
			ClearScreen: false,
		},
	}
}

// String returns the format name.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether f is a known output format.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputJSON, OutputYAML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the scheme name.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether c is a known color scheme.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the pattern text.
func (p FilePattern) String() string { return string(p) }

// IsValid returns whether p is non-blank. Glob syntax is checked by the scanner.
func (p FilePattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilePatternError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidFilePatternError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid file pattern %q (must not be empty)", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid file pattern %q (must not be empty)", e.Value)
}

// Unwrap returns ErrInvalidFilePattern for errors.Is() compatibility.
func (e *InvalidFilePatternError) Unwrap() error { return ErrInvalidFilePattern }

// Error implements the error interface.
func (e *InvalidTargetVersionError) Error() string {
	return fmt.Sprintf("invalid target version %d (must be >= 1)", e.Value)
}

// Unwrap returns ErrInvalidTargetVersion for errors.Is() compatibility.
func (e *InvalidTargetVersionError) Unwrap() error { return ErrInvalidTargetVersion }

// DebounceDuration parses Debounce, falling back to DefaultWatchDebounce when empty.
func (c WatchConfig) DebounceDuration() (time.Duration, error) {
	raw := c.Debounce
	if raw == "" {
		raw = DefaultWatchDebounce
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &InvalidWatchConfigError{Debounce: c.Debounce, Cause: err}
	}
	if d < 0 {
		return 0, &InvalidWatchConfigError{Debounce: c.Debounce, Cause: errors.New("negative duration")}
	}
	return d, nil
}

// IsValid returns whether the watch section has a usable debounce.
func (c WatchConfig) IsValid() (bool, []error) {
	if _, err := c.DebounceDuration(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch debounce %q: %v", e.Debounce, e.Cause)
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid checks every field of the configuration.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, _ := c.PipelinePattern.IsValid(); !valid {
		errs = append(errs, &InvalidFilePatternError{Field: "pipeline_pattern", Value: c.PipelinePattern})
	}
	if valid, _ := c.EnvironmentPattern.IsValid(); !valid {
		errs = append(errs, &InvalidFilePatternError{Field: "environment_pattern", Value: c.EnvironmentPattern})
	}
	if c.TargetVersion < 1 {
		errs = append(errs, &InvalidTargetVersionError{Value: c.TargetVersion})
	}
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the aggregate and the individual sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
