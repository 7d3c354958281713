// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ekgame/uiua-boo/internal/publish"
	"github.com/ekgame/uiua-boo/internal/registry"
	"github.com/ekgame/uiua-boo/pkg/archive"
)

var (
	// ErrInvalidByteSize is the sentinel error wrapped by InvalidByteSizeError.
	ErrInvalidByteSize = errors.New("invalid byte size")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ByteSize is a human-readable size such as "5MB" or "512KiB".
	ByteSize string

	// InvalidByteSizeError is returned when a ByteSize cannot be parsed or is not positive.
	InvalidByteSizeError struct {
		Field string
		Value ByteSize
		Err   error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		API        APIConfig        `json:"api" mapstructure:"api"`
		Publish    PublishConfig    `json:"publish" mapstructure:"publish"`
		Validation ValidationConfig `json:"validation" mapstructure:"validation"`
		UI         UIConfig         `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from; empty when only
		// defaults and environment variables apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// APIConfig configures the registry client.
	APIConfig struct {
		URL     string        `json:"url" mapstructure:"url"`
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// PublishConfig configures the publish polling loops.
	PublishConfig struct {
		PollInterval time.Duration `json:"poll_interval" mapstructure:"poll_interval"`
		AuthTimeout  time.Duration `json:"auth_timeout" mapstructure:"auth_timeout"`
		JobTimeout   time.Duration `json:"job_timeout" mapstructure:"job_timeout"`
		// OpenBrowser opens the approval page automatically.
		OpenBrowser bool `json:"open_browser" mapstructure:"open_browser"`
	}

	// ValidationConfig holds the archive limits.
	ValidationConfig struct {
		MaxCompressedSize ByteSize `json:"max_compressed_size" mapstructure:"max_compressed_size"`
		MaxEntrySize      ByteSize `json:"max_entry_size" mapstructure:"max_entry_size"`
		MaxUnpackedSize   ByteSize `json:"max_unpacked_size" mapstructure:"max_unpacked_size"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     registry.DefaultBaseURL,
			Timeout: registry.DefaultTimeout,
		},
		Publish: PublishConfig{
			PollInterval: publish.DefaultPollInterval,
			AuthTimeout:  publish.DefaultAuthTimeout,
			JobTimeout:   publish.DefaultJobTimeout,
			OpenBrowser:  true,
		},
		Validation: ValidationConfig{
			MaxCompressedSize: "5MB",
			MaxEntrySize:      "5MB",
			MaxUnpackedSize:   "64MB",
		},
	}
}

// String returns the string representation of the ByteSize.
func (s ByteSize) String() string { return string(s) }

// Bytes parses the size.
func (s ByteSize) Bytes() (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(string(s)))
	if err != nil {
		return 0, err
	}
	if n == 0 || n > 1<<62 {
		return 0, fmt.Errorf("size must be positive and reasonable, got %d bytes", n)
	}
	return int64(n), nil
}

// Error implements the error interface for InvalidByteSizeError.
func (e *InvalidByteSizeError) Error() string {
	return fmt.Sprintf("%s: invalid size %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns ErrInvalidByteSize for errors.Is() compatibility.
func (e *InvalidByteSizeError) Unwrap() error { return ErrInvalidByteSize }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and the individual causes.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks the constraints that the CUE schema cannot express and that
// environment overrides bypass.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.API.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.url: %q is not an absolute http(s) URL", c.API.URL))
	}
	for _, f := range []struct {
		name string
		d    time.Duration
	}{
		{"api.timeout", c.API.Timeout},
		{"publish.poll_interval", c.Publish.PollInterval},
		{"publish.auth_timeout", c.Publish.AuthTimeout},
		{"publish.job_timeout", c.Publish.JobTimeout},
	} {
		if f.d <= 0 {
			errs = append(errs, fmt.Errorf("%s: duration must be positive, got %s", f.name, f.d))
		}
	}
	if _, err := c.Validation.Rules(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Rules converts the configured limits into archive validation rules.
func (v ValidationConfig) Rules() (archive.Rules, error) {
	var (
		rules archive.Rules
		errs  []error
	)
	for _, f := range []struct {
		name string
		size ByteSize
		dst  *int64
	}{
		{"validation.max_compressed_size", v.MaxCompressedSize, &rules.MaxCompressedSize},
		{"validation.max_entry_size", v.MaxEntrySize, &rules.MaxEntrySize},
		{"validation.max_unpacked_size", v.MaxUnpackedSize, &rules.MaxUnpackedSize},
	} {
		n, err := f.size.Bytes()
		if err != nil {
			errs = append(errs, &InvalidByteSizeError{Field: f.name, Value: f.size, Err: err})
			continue
		}
		*f.dst = n
	}
	return rules, errors.Join(errs...)
}
