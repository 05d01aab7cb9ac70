// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"context"
	_ "crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"
)

// Coordinator lists archive entries, extracts one entry to scratch storage,
// and hands it to the host opener. At most one Session is live at a time.
type Coordinator struct {
	opts   CoordinatorOptions
	waiter loadWaiter
	slot   *semaphore.Weighted
}

// NewCoordinator creates coordinator with defaults applied.
func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	opts.applyDefaults()

	return &Coordinator{
		opts:   opts,
		waiter: newLoadWaiter(opts.Capabilities, opts.PollInterval),
		slot:   semaphore.NewWeighted(1),
	}
}

// ListEntries returns filtered, sorted entry paths.
// ListFlat drops folder entries; ListTree keeps them for navigation.
func (c *Coordinator) ListEntries(a Archive, mode ListMode) ([]string, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	entries := a.Entries()
	if mode.orDefault() == ListFlat {
		entries = slices.DeleteFunc(entries, IsDirEntry)
	}

	entries = c.opts.Filter.Apply(entries)
	slices.Sort(entries)
	entries = slices.Compact(entries)

	c.opts.Logger.Debug("entry list built",
		"format", a.Format(),
		"mode", mode.orDefault(),
		"entries", len(entries))

	return entries, nil
}

// Extract reads entry from archive and writes it into a fresh scratch directory.
// The entry is fully read before scratch storage is created, so failures leave nothing behind.
func (c *Coordinator) Extract(ctx context.Context, a Archive, entryPath string) (*ExtractedEntry, error) {
	if a == nil {
		return nil, ErrNilArchive
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entryPath == "" || IsDirEntry(entryPath) {
		return nil, entryNotFoundError(entryPath)
	}

	data, err := a.ReadEntry(entryPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := &ExtractedEntry{
		ArchivePath: entryPath,
		DisplayName: BaseName(entryPath),
		Digest:      digest.FromBytes(data),
		Size:        int64(len(data)),
		fs:          c.opts.Scratch,
	}

	dir, err := afero.TempDir(c.opts.Scratch, c.opts.ScratchDir, scratchDirPattern)
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	entry.dir = dir
	entry.TemporaryLocation = filepath.Join(dir, SanitizeName(entry.DisplayName))

	if err := c.writeScratch(entry, data); err != nil {
		return nil, errors.Join(err, entry.Release())
	}

	c.opts.Logger.Debug("entry extracted",
		"entry", entryPath,
		"path", entry.TemporaryLocation,
		"size", entry.Size,
		"digest", entry.Digest)

	return entry, nil
}

// writeScratch writes data to entry temporary location and verifies written content.
func (c *Coordinator) writeScratch(entry *ExtractedEntry, data []byte) error {
	f, err := c.opts.Scratch.OpenFile(entry.TemporaryLocation, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write scratch file: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync scratch file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close scratch file: %w", err)
	}

	return verifyScratch(c.opts.Scratch, entry.TemporaryLocation, entry.Digest)
}

// verifyScratch re-reads path and compares its digest with want.
func verifyScratch(fs afero.Fs, path string, want digest.Digest) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("reopen scratch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	verifier := want.Verifier()
	if _, err := io.Copy(verifier, f); err != nil {
		return fmt.Errorf("read scratch file: %w", err)
	}

	if !verifier.Verified() {
		return fmt.Errorf("%w: %s", ErrDigestMismatch, path)
	}

	return nil
}

// Open hands extracted entry to host opener and waits for the view to finish loading.
// The returned channel yields one result and is closed; entry is released in every case.
func (c *Coordinator) Open(ctx context.Context, entry *ExtractedEntry) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)
		done <- c.open(ctx, entry)
	}()

	return done
}

// open runs opener, load wait, and finalize steps, then releases entry.
func (c *Coordinator) open(ctx context.Context, entry *ExtractedEntry) error {
	if entry == nil {
		return ErrReleased
	}
	if entry.Released() {
		return ErrReleased
	}

	if c.opts.Opener == nil {
		return errors.Join(ErrNoOpener, c.release(entry))
	}

	view, err := c.opts.Opener(ctx, entry.TemporaryLocation, entry.DisplayName)
	if err != nil {
		return errors.Join(fmt.Errorf("open %s: %w", entry.DisplayName, err), c.release(entry))
	}

	// Nil view has nothing left to load.
	if view == nil {
		c.opts.Logger.Debug("opener returned no view", "entry", entry.ArchivePath)
		return c.release(entry)
	}

	if err := c.waiter.wait(ctx, view); err != nil {
		return errors.Join(err, c.release(entry))
	}
	c.opts.Logger.Debug("view loaded", "entry", entry.ArchivePath)

	var finalizeErr error
	if finalizer, ok := view.(Finalizer); ok {
		if err := finalizer.Finalize(entry.DisplayName); err != nil {
			finalizeErr = fmt.Errorf("finalize %s: %w", entry.DisplayName, err)
		}
	}

	return errors.Join(finalizeErr, c.release(entry))
}

// release releases entry and logs failures.
func (c *Coordinator) release(entry *ExtractedEntry) error {
	if err := entry.Release(); err != nil {
		c.opts.Logger.Warn("release scratch storage", "entry", entry.ArchivePath, "error", err)
		return err
	}

	c.opts.Logger.Debug("scratch storage released", "entry", entry.ArchivePath)
	return nil
}
