// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/woozymasta/zipcontents"
)

// openArchive opens ARCHIVE argument with settings and command flags applied.
func (a *app) openArchive(cmd *cli.Command) (zipcontents.Archive, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, errors.New("archive path is required")
	}

	opts := a.settings.Archive
	if cmd.Bool("verify") {
		opts.VerifyPBOChecksum = true
	}

	archive, err := openArchivePath(path, opts, cmd.Bool("hex"))
	if err != nil {
		return nil, err
	}

	a.logger.Debug("archive opened", "path", path, "format", archive.Format())
	return archive, nil
}

// openArchivePath opens binary archive, falling back to hex text when no binary signature matches.
// With forceHex the file is always read as hex text.
func openArchivePath(path string, opts zipcontents.ArchiveOptions, forceHex bool) (zipcontents.Archive, error) {
	if !forceHex {
		archive, err := zipcontents.OpenArchiveFile(path, opts)
		if !errors.Is(err, zipcontents.ErrUnknownFormat) {
			return archive, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	src := zipcontents.NewReaderAtSource(f, fi.Size())
	if !forceHex && !zipcontents.HasArchiveSignature(src) {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, zipcontents.ErrUnknownFormat)
	}

	archive, err := zipcontents.OpenHexArchive(src, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &hexFileArchive{Archive: archive, src: src, file: f}, nil
}

// hexFileArchive owns hex text file backing an archive.
type hexFileArchive struct {
	zipcontents.Archive
	src  *zipcontents.ReaderAtSource
	file *os.File
}

// Close closes archive, invalidates source, and closes file.
func (a *hexFileArchive) Close() error {
	return errors.Join(a.Archive.Close(), a.src.Close(), a.file.Close())
}
