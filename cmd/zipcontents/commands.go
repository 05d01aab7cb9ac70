// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/woozymasta/zipcontents"
)

// archiveFlags are shared by commands reading an archive.
func archiveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "hex",
			Usage: "treat input as hex text dump (auto-detected when unset)",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "verify PBO SHA1 trailer on open",
		},
	}
}

// modeFlag selects listing mode, overriding settings.
func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "listing mode (flat, tree)",
	}
}

func (a *app) listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "print filtered archive entries",
		ArgsUsage: "ARCHIVE",
		Flags: append(archiveFlags(), modeFlag(),
			&cli.BoolFlag{Name: "json", Usage: "print entries as JSON array"},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			mode, err := a.mode(cmd)
			if err != nil {
				return err
			}

			archive, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = archive.Close() }()

			c := zipcontents.NewCoordinator(a.coordinatorOptions())
			entries, err := c.ListEntries(archive, mode)
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			dir := color.New(color.FgBlue, color.Bold).SprintFunc()
			for _, entry := range entries {
				if zipcontents.IsDirEntry(entry) {
					fmt.Fprintln(a.out, dir(entry))
					continue
				}

				fmt.Fprintln(a.out, entry)
			}

			return nil
		},
	}
}

func (a *app) browseCommand() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "choose an entry interactively and open it",
		ArgsUsage: "ARCHIVE",
		Flags: append(archiveFlags(), modeFlag(),
			&cli.StringFlag{
				Name:    "open-cmd",
				Usage:   "command opening extracted file; file path is appended (default: print to stdout)",
				Sources: cli.EnvVars("ZIPCONTENTS_OPEN_CMD"),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mode, err := a.mode(cmd)
			if err != nil {
				return err
			}

			archive, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = archive.Close() }()

			opts := a.coordinatorOptions()
			opts.Chooser = newTerminalChooser(a.in, a.errOut).choose

			opener, caps, err := newOpener(cmd.String("open-cmd"), a.in, a.out, a.errOut)
			if err != nil {
				return err
			}
			opts.Opener = opener
			opts.Capabilities = caps

			state, err := zipcontents.NewCoordinator(opts).Browse(ctx, archive, mode)
			a.logger.Debug("session finished", "state", state)
			if errors.Is(err, zipcontents.ErrEmptyArchive) {
				fmt.Fprintln(a.errOut, color.YellowString("archive has no entries to show"))
				return nil
			}

			return err
		},
	}
}

func (a *app) extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "extract one entry into a directory",
		ArgsUsage: "ARCHIVE ENTRY",
		Flags: append(archiveFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output directory",
				Value:   ".",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			entryPath := cmd.Args().Get(1)
			if entryPath == "" {
				return errors.New("entry path is required")
			}

			archive, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = archive.Close() }()

			data, err := archive.ReadEntry(entryPath)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			outDir := cmd.String("output")
			if err := fs.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			target := filepath.Join(outDir, zipcontents.SanitizeName(zipcontents.BaseName(entryPath)))
			if err := afero.WriteFile(fs, target, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}

			fmt.Fprintf(a.out, "%s %s (%d bytes, %s)\n",
				color.GreenString("extracted"), target, len(data), digest.FromBytes(data))
			return nil
		},
	}
}

func (a *app) hexdumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "hexdump",
		Usage:     "write file as hex text accepted by --hex",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (default: stdout)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("file path is required")
			}

			in, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			out := a.out
			if target := cmd.String("output"); target != "" {
				f, err := os.Create(target)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			w := bufio.NewWriter(out)
			n, err := zipcontents.WriteHex(w, in)
			if err != nil {
				return err
			}

			a.logger.Debug("hex dump written", "file", path, "bytes", n)
			return w.Flush()
		},
	}
}

// mode returns listing mode from --mode flag or settings.
func (a *app) mode(cmd *cli.Command) (zipcontents.ListMode, error) {
	if !cmd.IsSet("mode") {
		return a.settings.Mode, nil
	}

	switch mode := zipcontents.ListMode(strings.ToLower(cmd.String("mode"))); mode {
	case zipcontents.ListFlat, zipcontents.ListTree:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid mode %q", cmd.String("mode"))
	}
}

// coordinatorOptions returns coordinator options from loaded settings.
func (a *app) coordinatorOptions() zipcontents.CoordinatorOptions {
	return zipcontents.CoordinatorOptions{
		Logger:       a.logger,
		Filter:       a.filter,
		ScratchDir:   a.settings.ScratchDir,
		PollInterval: time.Duration(a.settings.PollInterval),
	}
}
