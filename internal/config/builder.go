package config

import (
	"errors"
	"fmt"
	"strings"
)

// invalidTemplateChars are characters that may not appear in a tag template.
// `/` is rejected so a rendered tag can never contain a path separator; the
// rest are rejected by git itself.
const invalidTemplateChars = "/\\ \t\n~^:?*[@"

// Builder constructs a ReleaseConfig by layering overrides on top of defaults.
type Builder struct {
	overrides []*Config
}

// NewBuilder creates a new configuration builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add adds a configuration override. Overrides are applied in order:
// later overrides take precedence over earlier ones.
func (b *Builder) Add(override *Config) *Builder {
	if override != nil {
		b.overrides = append(b.overrides, override)
	}
	return b
}

// Build starts from the defaults, applies all overrides, validates the
// result and returns the resolved configuration.
func (b *Builder) Build() (ReleaseConfig, error) {
	cfg := CreateDefaultConfiguration()

	for _, override := range b.overrides {
		mergeConfig(cfg, override)
	}

	if err := validate(cfg); err != nil {
		return ReleaseConfig{}, err
	}

	return ReleaseConfig{
		MasterFormat:  *cfg.MasterFormat,
		BranchFormat:  *cfg.BranchFormat,
		NoPush:        *cfg.NoPush,
		Remote:        *cfg.Remote,
		Annotate:      *cfg.Annotate,
		GitHubRelease: *cfg.GitHubRelease,
	}, nil
}

// mergeConfig applies non-nil fields from src to dst.
func mergeConfig(dst, src *Config) {
	if src.MasterFormat != nil {
		dst.MasterFormat = src.MasterFormat
	}
	if src.BranchFormat != nil {
		dst.BranchFormat = src.BranchFormat
	}
	if src.NoPush != nil {
		dst.NoPush = src.NoPush
	}
	if src.Remote != nil {
		dst.Remote = src.Remote
	}
	if src.Annotate != nil {
		dst.Annotate = src.Annotate
	}
	if src.GitHubRelease != nil {
		dst.GitHubRelease = src.GitHubRelease
	}
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	if err := validateTemplate("master-format", *cfg.MasterFormat); err != nil {
		return err
	}
	if err := validateTemplate("branch-format", *cfg.BranchFormat); err != nil {
		return err
	}
	if strings.TrimSpace(*cfg.Remote) == "" {
		return errors.New("remote must not be empty")
	}
	return nil
}

func validateTemplate(name, tmpl string) error {
	if !strings.Contains(tmpl, VersionPlaceholder) {
		return fmt.Errorf("%s %q must contain %s", name, tmpl, VersionPlaceholder)
	}
	if i := strings.IndexAny(tmpl, invalidTemplateChars); i >= 0 {
		return fmt.Errorf("%s %q contains invalid character %q", name, tmpl, tmpl[i])
	}
	if strings.HasPrefix(tmpl, "-") || strings.Contains(tmpl, "..") || strings.HasSuffix(tmpl, ".lock") {
		return fmt.Errorf("%s %q would not produce a valid tag name", name, tmpl)
	}
	return nil
}
