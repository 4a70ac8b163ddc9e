package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMaxParameters indicates a non-positive parameter threshold
	ErrInvalidMaxParameters = errors.New("invalid max parameters")

	// ErrInvalidIndent indicates a negative or oversized indent width
	ErrInvalidIndent = errors.New("invalid indent")

	// ErrInvalidPlacement indicates an unknown function placement
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrInvalidTransformBreak indicates an unknown break transform mode
	ErrInvalidTransformBreak = errors.New("invalid transform_break")

	// ErrInvalidConcurrency indicates a non-positive batch concurrency
	ErrInvalidConcurrency = errors.New("invalid batch concurrency")

	// ErrInvalidCacheSize indicates a non-positive tree cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Analysis.MaxParameters <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_parameters must be positive, got %d", ErrInvalidMaxParameters, cfg.Analysis.MaxParameters))
	}

	if cfg.Printer.Indent < 0 || cfg.Printer.Indent > 16 {
		errs = append(errs, fmt.Errorf("%w: indent must be between 0 and 16, got %d", ErrInvalidIndent, cfg.Printer.Indent))
	}

	switch strings.ToLower(cfg.Generate.Placement) {
	case "before", "after", "top":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'before', 'after' or 'top', got '%s'", ErrInvalidPlacement, cfg.Generate.Placement))
	}

	switch strings.ToLower(cfg.Generate.TransformBreak) {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'auto', 'always' or 'never', got '%s'", ErrInvalidTransformBreak, cfg.Generate.TransformBreak))
	}

	if cfg.Batch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConcurrency, cfg.Batch.Concurrency))
	}

	if cfg.Batch.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.Batch.CacheSize))
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: must be debug, info, warn or error, got '%s'", ErrInvalidLogLevel, cfg.Log.Level))
	}

	return joinErrors(errs)
}

// validationErrors keeps every cause reachable through errors.Is.
type validationErrors []error

func (e validationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e validationErrors) Unwrap() []error { return e }

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return validationErrors(errs)
}
