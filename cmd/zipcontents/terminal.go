// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/woozymasta/zipcontents"
)

// terminalChooser prints numbered listings and reads selection from input.
type terminalChooser struct {
	in     *bufio.Reader
	out    io.Writer
	dir    func(a ...any) string
	up     func(a ...any) string
	prompt func(a ...any) string
	warn   func(a ...any) string
}

func newTerminalChooser(in io.Reader, out io.Writer) *terminalChooser {
	return &terminalChooser{
		in:     bufio.NewReader(in),
		out:    out,
		dir:    color.New(color.FgBlue, color.Bold).SprintFunc(),
		up:     color.New(color.FgYellow).SprintFunc(),
		prompt: color.New(color.FgCyan).SprintFunc(),
		warn:   color.New(color.FgRed).SprintFunc(),
	}
}

// choose returns zero-based index of selected item, or -1 on empty input, "q", or end of input.
func (t *terminalChooser) choose(ctx context.Context, items []string) (int, error) {
	for i, item := range items {
		switch {
		case item == zipcontents.UpEntry:
			item = t.up(item)
		case zipcontents.IsDirEntry(item):
			item = t.dir(item)
		}

		fmt.Fprintf(t.out, "%4d  %s\n", i+1, item)
	}

	for {
		if err := ctx.Err(); err != nil {
			return -1, err
		}

		fmt.Fprint(t.out, t.prompt(fmt.Sprintf("select [1-%d, q to cancel]: ", len(items))))
		line, err := t.in.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return -1, fmt.Errorf("read selection: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "q") {
			return -1, nil
		}

		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}

		fmt.Fprintln(t.out, t.warn("invalid selection: "+line))
		if eof {
			return -1, nil
		}
	}
}

// newOpener returns opener for openCmd and the matching host capabilities.
// Empty openCmd prints extracted content to out.
func newOpener(openCmd string, in io.Reader, out, errOut io.Writer) (zipcontents.Opener, zipcontents.Capabilities, error) {
	if strings.TrimSpace(openCmd) == "" {
		return printOpener(out, errOut), zipcontents.Capabilities{}, nil
	}

	args := strings.Fields(openCmd)
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, zipcontents.Capabilities{}, fmt.Errorf("open command: %w", err)
	}

	return commandOpener(args, in, out, errOut), zipcontents.Capabilities{LoadEvents: true}, nil
}

// printOpener copies extracted file to out; the view is loaded once copy returns.
func printOpener(out, errOut io.Writer) zipcontents.Opener {
	return func(_ context.Context, path, displayName string) (zipcontents.View, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		if _, err := io.Copy(out, f); err != nil {
			return nil, fmt.Errorf("print %s: %w", displayName, err)
		}

		return &doneView{out: errOut}, nil
	}
}

// commandOpener starts external command with extracted path appended.
func commandOpener(args []string, in io.Reader, out, errOut io.Writer) zipcontents.Opener {
	return func(ctx context.Context, path, _ string) (zipcontents.View, error) {
		cmd := exec.CommandContext(ctx, args[0], append(slices.Clone(args[1:]), path)...)
		cmd.Stdin = in
		cmd.Stdout = out
		cmd.Stderr = errOut

		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start %s: %w", args[0], err)
		}

		view := &processView{done: make(chan struct{}), doneView: doneView{out: errOut}}
		go func() {
			view.err = cmd.Wait()
			close(view.done)
		}()

		return view, nil
	}
}

// doneView is a view that finished loading when created.
type doneView struct {
	out io.Writer
}

func (v *doneView) IsLoading() bool { return false }

// Finalize reports opened entry.
func (v *doneView) Finalize(displayName string) error {
	fmt.Fprintln(v.out, color.GreenString("viewed"), displayName)
	return nil
}

// processView is loading until the viewer process exits.
type processView struct {
	err  error
	done chan struct{}
	doneView
}

func (v *processView) IsLoading() bool {
	select {
	case <-v.done:
		return false
	default:
		return true
	}
}

func (v *processView) Loaded() <-chan struct{} { return v.done }

// Finalize reports viewer exit status.
func (v *processView) Finalize(displayName string) error {
	if v.err != nil {
		return fmt.Errorf("viewer: %w", v.err)
	}

	return v.doneView.Finalize(displayName)
}
