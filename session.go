// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SessionState is a browsing session lifecycle state.
type SessionState int

// Session lifecycle: Idle -> ListBuilt -> Presented -> {Cancelled | Extracting -> Opened -> Released}.
// Extracting moves to Failed when the selected entry cannot be extracted.
const (
	StateIdle SessionState = iota
	StateListBuilt
	StatePresented
	StateCancelled
	StateExtracting
	StateOpened
	StateReleased
	StateFailed
)

// String returns state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListBuilt:
		return "list-built"
	case StatePresented:
		return "presented"
	case StateCancelled:
		return "cancelled"
	case StateExtracting:
		return "extracting"
	case StateOpened:
		return "opened"
	case StateReleased:
		return "released"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s SessionState) Terminal() bool {
	return s == StateCancelled || s == StateReleased || s == StateFailed
}

// Session is one browse-and-extract run over one archive.
// It owns the coordinator slot from Begin until Close.
type Session struct {
	coordinator *Coordinator
	archive     Archive
	entry       *ExtractedEntry
	mode        ListMode
	entries     []string
	state       SessionState
	mu          sync.Mutex
	closeOnce   sync.Once
	ran         bool
	closed      bool
}

// Begin acquires the coordinator slot and builds entry list for archive.
// It fails with ErrSessionActive while another session is open.
func (c *Coordinator) Begin(a Archive, mode ListMode) (*Session, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	if !c.slot.TryAcquire(1) {
		return nil, ErrSessionActive
	}

	s := &Session{
		coordinator: c,
		archive:     a,
		mode:        mode.orDefault(),
		state:       StateIdle,
	}

	entries, err := c.ListEntries(a, s.mode)
	if err != nil {
		c.slot.Release(1)
		return nil, err
	}

	s.entries = entries
	s.state = StateListBuilt
	return s, nil
}

// State returns current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Entries returns listing built by Begin.
func (s *Session) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Entry returns extracted entry, or nil before extraction.
func (s *Session) Entry() *ExtractedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entry
}

// Run presents listing through chooser, extracts selected entry, opens it,
// and waits until the view finished loading. Run may be called once.
// A cancelled selection returns nil with state StateCancelled.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.ran {
		s.mu.Unlock()
		return fmt.Errorf("%w: state %s", ErrSessionClosed, s.state)
	}
	s.ran = true
	s.mu.Unlock()

	c := s.coordinator
	if c.opts.Chooser == nil {
		return ErrNoChooser
	}
	if len(s.entries) == 0 {
		return ErrEmptyArchive
	}

	entryPath, ok, err := s.choose(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.setState(StateCancelled)
		c.opts.Logger.Debug("selection cancelled")
		return nil
	}

	s.setState(StateExtracting)
	entry, err := c.Extract(ctx, s.archive, entryPath)
	if err != nil {
		s.setState(StateFailed)
		return fmt.Errorf("extract %s: %w", entryPath, err)
	}

	s.mu.Lock()
	s.entry = entry
	s.state = StateOpened
	s.mu.Unlock()

	openErr := <-c.Open(ctx, entry)
	if entry.Released() {
		s.setState(StateReleased)
	}

	return openErr
}

// choose runs chooser until a file is selected or selection is cancelled.
func (s *Session) choose(ctx context.Context) (string, bool, error) {
	c := s.coordinator

	if s.mode == ListFlat {
		s.setState(StatePresented)
		index, err := c.opts.Chooser(ctx, s.Entries())
		if err != nil {
			return "", false, fmt.Errorf("choose entry: %w", err)
		}
		if index < 0 {
			return "", false, nil
		}
		if index >= len(s.entries) {
			return "", false, fmt.Errorf("%w: %d of %d", ErrInvalidSelection, index, len(s.entries))
		}

		c.opts.Logger.Debug("entry selected", "entry", s.entries[index])
		return s.entries[index], true, nil
	}

	browser := NewBrowser(s.entries)
	if len(browser.Listing()) == 0 {
		return "", false, ErrEmptyArchive
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		s.setState(StatePresented)
		index, err := c.opts.Chooser(ctx, browser.Listing())
		if err != nil {
			return "", false, fmt.Errorf("choose entry: %w", err)
		}

		action, err := browser.Select(index)
		if err != nil {
			return "", false, err
		}

		c.opts.Logger.Debug("browser selection", "action", action.Kind, "path", action.Path)
		switch action.Kind {
		case ActionCancelled:
			return "", false, nil
		case ActionExtract:
			return action.Path, true, nil
		}
	}
}

// setState moves session to state.
func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Close releases extracted storage still held and frees the coordinator slot.
// Close is idempotent.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		entry := s.entry
		s.mu.Unlock()

		if entry != nil && !entry.Released() {
			err = s.coordinator.release(entry)
			s.setState(StateReleased)
		}

		s.coordinator.slot.Release(1)
	})

	return err
}

// Browse runs one complete session over archive: Begin, Run, Close.
func (c *Coordinator) Browse(ctx context.Context, a Archive, mode ListMode) (SessionState, error) {
	s, err := c.Begin(a, mode)
	if err != nil {
		return StateIdle, err
	}

	runErr := s.Run(ctx)
	closeErr := s.Close()
	return s.State(), errors.Join(runErr, closeErr)
}
