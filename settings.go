// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/woozymasta/pathrules"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding settings.
const (
	EnvFileExcludePatterns   = "ZIPCONTENTS_FILE_EXCLUDE_PATTERNS"
	EnvFolderExcludePatterns = "ZIPCONTENTS_FOLDER_EXCLUDE_PATTERNS"
	EnvMode                  = "ZIPCONTENTS_MODE"
)

// Duration is time.Duration encoded as text ("250ms") in settings files.
type Duration time.Duration

// MarshalText encodes duration as Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText decodes Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}

	*d = Duration(v)
	return nil
}

// Settings is user configuration loaded from file and environment.
type Settings struct {
	// ExcludeMatcherOptions control ExcludeRules matching.
	ExcludeMatcherOptions pathrules.MatcherOptions `json:"exclude_matcher_options,omitzero" yaml:"exclude_matcher_options,omitempty"`
	// Mode selects flat or tree listing (default flat).
	Mode ListMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	// ScratchDir is parent directory for extracted files (default OS temp dir).
	ScratchDir string `json:"scratch_dir,omitempty" yaml:"scratch_dir,omitempty"`
	// Archive configures archive backends.
	Archive ArchiveOptions `json:"archive,omitzero" yaml:"archive,omitempty"`
	// FileExcludePatterns are file name globs hidden from listings.
	FileExcludePatterns []string `json:"file_exclude_patterns,omitempty" yaml:"file_exclude_patterns,omitempty"`
	// FolderExcludePatterns are folder name globs hidden from listings.
	FolderExcludePatterns []string `json:"folder_exclude_patterns,omitempty" yaml:"folder_exclude_patterns,omitempty"`
	// ExcludeRules are ordered include/exclude path rules.
	ExcludeRules []pathrules.Rule `json:"exclude_rules,omitempty" yaml:"exclude_rules,omitempty"`
	// PollInterval is view load polling interval (default 250ms).
	PollInterval Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
}

// DefaultSettings returns settings with defaults applied.
func DefaultSettings() Settings {
	var s Settings
	s.applyDefaults()
	return s
}

// applyDefaults fills zero-valued settings with defaults.
func (s *Settings) applyDefaults() {
	s.Mode = s.Mode.orDefault()
	s.Archive.applyDefaults()

	if s.PollInterval <= 0 {
		s.PollInterval = Duration(DefaultPollInterval)
	}
}

// LoadSettings reads settings from JSON (.json) or YAML (.yaml, .yml) file.
// Empty path or missing file yields defaults.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if path == "" {
		s.applyDefaults()
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.applyDefaults()
			return s, nil
		}

		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	s, err = ParseSettings(data, filepath.Ext(path))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// ParseSettings decodes settings for file extension ext (".json", ".yaml", ".yml").
func ParseSettings(data []byte, ext string) (Settings, error) {
	var s Settings

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("decode json settings: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("decode yaml settings: %w", err)
		}
	default:
		return Settings{}, fmt.Errorf("unsupported settings format %q", ext)
	}

	if err := s.validate(); err != nil {
		return Settings{}, err
	}

	s.applyDefaults()
	return s, nil
}

// ApplyEnv overrides settings from environment lookup function (os.LookupEnv when nil).
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvFileExcludePatterns); ok {
		s.FileExcludePatterns = splitList(v)
	}
	if v, ok := lookup(EnvFolderExcludePatterns); ok {
		s.FolderExcludePatterns = splitList(v)
	}
	if v, ok := lookup(EnvMode); ok && strings.TrimSpace(v) != "" {
		s.Mode = ListMode(strings.ToLower(strings.TrimSpace(v)))
	}

	return s.validate()
}

// ExcludeOptions returns exclusion filter options.
func (s Settings) ExcludeOptions() ExcludeOptions {
	return ExcludeOptions{
		FilePatterns:        s.FileExcludePatterns,
		FolderPatterns:      s.FolderExcludePatterns,
		Rules:               s.ExcludeRules,
		RulesMatcherOptions: s.ExcludeMatcherOptions,
	}
}

// validate checks enumerated values.
func (s Settings) validate() error {
	switch s.Mode {
	case "", ListFlat, ListTree:
	default:
		return fmt.Errorf("invalid mode %q", s.Mode)
	}

	return nil
}

// splitList splits comma separated list and drops empty items.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		out = append(out, part)
	}

	return out
}
