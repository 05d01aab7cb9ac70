// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"context"
	"time"
)

// Chooser presents items and returns the selected index, or a negative index for no selection.
type Chooser func(ctx context.Context, items []string) (int, error)

// Opener asks host environment to open extracted file at path under displayName.
type Opener func(ctx context.Context, path, displayName string) (View, error)

// View is a host handle on opened extracted content.
type View interface {
	// IsLoading reports whether host is still loading content.
	IsLoading() bool
}

// LoadNotifier is implemented by views that signal load completion.
// The returned channel is closed once loading is finished.
type LoadNotifier interface {
	Loaded() <-chan struct{}
}

// Finalizer is implemented by views that need a post-load step,
// such as renaming the view or marking it as scratch content.
type Finalizer interface {
	Finalize(displayName string) error
}

// loadWaiter blocks until an opened view finished loading.
type loadWaiter interface {
	wait(ctx context.Context, view View) error
}

// newLoadWaiter selects load wait strategy from host capabilities.
func newLoadWaiter(caps Capabilities, interval time.Duration) loadWaiter {
	poll := pollWaiter{interval: interval}
	if caps.LoadEvents {
		return notifyWaiter{fallback: poll}
	}

	return poll
}

// pollWaiter checks IsLoading on a fixed interval until it reports false.
type pollWaiter struct {
	interval time.Duration
}

// wait polls view until loaded or ctx is done.
func (w pollWaiter) wait(ctx context.Context, view View) error {
	if !view.IsLoading() {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !view.IsLoading() {
				return nil
			}
		}
	}
}

// notifyWaiter waits on LoadNotifier channel; views without it are polled.
type notifyWaiter struct {
	fallback pollWaiter
}

// wait blocks on view load event or ctx.
func (w notifyWaiter) wait(ctx context.Context, view View) error {
	notifier, ok := view.(LoadNotifier)
	if !ok {
		return w.fallback.wait(ctx, view)
	}

	loaded := notifier.Loaded()
	if loaded == nil {
		return w.fallback.wait(ctx, view)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-loaded:
		return nil
	}
}
