// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/woozymasta/zipcontents/internal/pbo"
)

// Default coordinator tuning values.
const (
	// DefaultPollInterval is view load polling interval for hosts without load events.
	DefaultPollInterval = 250 * time.Millisecond
	// UpEntry is the synthetic listing item that ascends one directory level.
	UpEntry = ".."
	// scratchDirPattern is the temp directory name pattern for extracted entries.
	scratchDirPattern = "zipcontents-"
)

// SeekMode controls how HexStream treats seeks before stream start.
type SeekMode string

// Stream seek policies.
const (
	// SeekModeClamp clamps negative seek results to zero.
	SeekModeClamp SeekMode = "clamp"
	// SeekModeStrict rejects negative seek results with ErrNegativePosition.
	SeekModeStrict SeekMode = "strict"
)

// StreamOptions configures HexStream behavior.
type StreamOptions struct {
	// SeekMode controls negative seek handling (default SeekModeClamp).
	SeekMode SeekMode `json:"seek_mode,omitempty" yaml:"seek_mode,omitempty"`
}

// Format identifies archive container format.
type Format string

// Supported archive formats.
const (
	FormatZIP      Format = "zip"
	FormatSevenZip Format = "7z"
	FormatPBO      Format = "pbo"
)

// ArchiveOptions configures archive backends.
type ArchiveOptions struct {
	// Stream configures HexStream for hex text sources.
	Stream StreamOptions `json:"stream,omitzero" yaml:"stream,omitempty"`
	// PBOOffsetMode controls PBO payload offset resolution (default sequential).
	PBOOffsetMode pbo.OffsetMode `json:"pbo_offset_mode,omitempty" yaml:"pbo_offset_mode,omitempty"`
	// VerifyPBOChecksum checks PBO SHA1 trailer on open when one is present.
	VerifyPBOChecksum bool `json:"verify_pbo_checksum,omitempty" yaml:"verify_pbo_checksum,omitempty"`
}

// ListMode selects flat or hierarchical listing.
type ListMode string

// Listing modes.
const (
	// ListFlat lists files only, without folder entries, in one selection list.
	ListFlat ListMode = "flat"
	// ListTree keeps folder entries and browses them as virtual directories.
	ListTree ListMode = "tree"
)

// Capabilities describes host features, resolved once at startup.
type Capabilities struct {
	// LoadEvents reports that opened views signal load completion via LoadNotifier.
	LoadEvents bool `json:"load_events,omitempty" yaml:"load_events,omitempty"`
}

// CoordinatorOptions configures Coordinator.
type CoordinatorOptions struct {
	// Logger receives debug events; nil discards logs.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// Filter excludes entries from listings; nil keeps everything.
	Filter *ExcludeFilter `json:"-" yaml:"-"`
	// Scratch is filesystem for extracted temporary files (default OS filesystem).
	Scratch afero.Fs `json:"-" yaml:"-"`
	// Chooser presents listings to user.
	Chooser Chooser `json:"-" yaml:"-"`
	// Opener opens extracted content in host environment.
	Opener Opener `json:"-" yaml:"-"`
	// ScratchDir is parent directory for temp files (default OS temp dir).
	ScratchDir string `json:"scratch_dir,omitempty" yaml:"scratch_dir,omitempty"`
	// Capabilities select load-wait strategy.
	Capabilities Capabilities `json:"capabilities,omitzero" yaml:"capabilities,omitempty"`
	// PollInterval is load polling interval (default 250ms).
	PollInterval time.Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
}

// applyDefaults fills zero-valued stream options with defaults.
func (opts *StreamOptions) applyDefaults() {
	if opts.SeekMode == "" {
		opts.SeekMode = SeekModeClamp
	}
}

// applyDefaults fills zero-valued archive options with defaults.
func (opts *ArchiveOptions) applyDefaults() {
	opts.Stream.applyDefaults()

	if opts.PBOOffsetMode == "" {
		opts.PBOOffsetMode = pbo.OffsetModeSequential
	}
}

// applyDefaults fills zero-valued coordinator options with defaults.
func (opts *CoordinatorOptions) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Scratch == nil {
		opts.Scratch = afero.NewOsFs()
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
}

// orDefault returns ListFlat for empty mode.
func (m ListMode) orDefault() ListMode {
	if m == "" {
		return ListFlat
	}

	return m
}
