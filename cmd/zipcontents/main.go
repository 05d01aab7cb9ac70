// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

// Command zipcontents lists, browses, and extracts archive entries from
// binary archives or their hex text dumps.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/woozymasta/zipcontents"
)

// version is set at build time via -ldflags.
var version = "dev"

// app holds state shared by subcommands, resolved in Before.
type app struct {
	logger   *slog.Logger
	filter   *zipcontents.ExcludeFilter
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	settings zipcontents.Settings
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	if err := newCommand(a).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// newCommand builds root command with all subcommands.
func newCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "zipcontents",
		Usage:     "browse ZIP, 7z, and PBO archives stored as binary or hex text",
		Version:   version,
		Reader:    a.in,
		Writer:    a.out,
		ErrWriter: a.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "settings file (.json, .yaml, .yml)",
				Sources: cli.EnvVars("ZIPCONTENTS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringSliceFlag{
				Name:  "exclude-file",
				Usage: "file name glob hidden from listings (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude-folder",
				Usage: "folder name glob hidden from listings (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.listCommand(),
			a.browseCommand(),
			a.extractCommand(),
			a.hexdumpCommand(),
		},
	}
}

// before loads settings, logger, and exclusion filter.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("no-color") {
		color.NoColor = true
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cmd.String("log-level")))); err != nil {
		return ctx, fmt.Errorf("log level: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	settings, err := zipcontents.LoadSettings(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if err := settings.ApplyEnv(nil); err != nil {
		return ctx, fmt.Errorf("environment: %w", err)
	}

	settings.FileExcludePatterns = append(settings.FileExcludePatterns, cmd.StringSlice("exclude-file")...)
	settings.FolderExcludePatterns = append(settings.FolderExcludePatterns, cmd.StringSlice("exclude-folder")...)
	a.settings = settings

	filter, err := zipcontents.NewExcludeFilter(settings.ExcludeOptions())
	if err != nil {
		return ctx, err
	}
	a.filter = filter

	a.logger.Debug("settings loaded",
		"config", cmd.String("config"),
		"mode", settings.Mode,
		"file_excludes", len(settings.FileExcludePatterns),
		"folder_excludes", len(settings.FolderExcludePatterns))

	return ctx, nil
}
