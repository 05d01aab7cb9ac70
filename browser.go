// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"fmt"
	"slices"
	"strings"
)

// ActionKind is the outcome of a browser selection.
type ActionKind int

// Browser selection outcomes.
const (
	// ActionCancelled means no item was selected; browsing is over.
	ActionCancelled ActionKind = iota
	// ActionAscend means the up-entry was selected and one level was popped.
	ActionAscend
	// ActionDescend means a directory was selected and pushed.
	ActionDescend
	// ActionExtract means a file was selected.
	ActionExtract
)

// String returns action kind name.
func (k ActionKind) String() string {
	switch k {
	case ActionCancelled:
		return "cancelled"
	case ActionAscend:
		return "ascend"
	case ActionDescend:
		return "descend"
	case ActionExtract:
		return "extract"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a browser selection result.
type Action struct {
	// Path is the new prefix for ActionAscend/ActionDescend and the full entry path for ActionExtract.
	Path string
	// Kind is selection outcome.
	Kind ActionKind
}

// Browser presents a flat sorted entry list as virtual directories.
type Browser struct {
	// entries is sorted, de-duplicated entry path list.
	entries []string
	// stack holds selected directory prefixes, each ending with "/".
	stack []string
}

// NewBrowser creates a browser at root. Entries use "/" separators; directories end with "/".
func NewBrowser(entries []string) *Browser {
	sorted := slices.Clone(entries)
	slices.Sort(sorted)
	return &Browser{entries: slices.Compact(sorted)}
}

// Prefix returns current directory prefix; empty at root.
func (b *Browser) Prefix() string {
	if len(b.stack) == 0 {
		return ""
	}

	return b.stack[len(b.stack)-1]
}

// AtRoot reports whether no directory is selected.
func (b *Browser) AtRoot() bool {
	return len(b.stack) == 0
}

// Listing returns display names directly beneath current prefix.
// Outside root the first item is always UpEntry.
func (b *Browser) Listing() []string {
	prefix := b.Prefix()

	names := make([]string, 0, 16)
	seen := make(map[string]struct{}, 16)
	for _, entry := range b.entries {
		if !strings.HasPrefix(entry, prefix) {
			continue
		}

		name, _ := childName(entry, prefix)
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	// A file record that shares its name with a directory is the directory itself.
	names = slices.DeleteFunc(names, func(name string) bool {
		if strings.HasSuffix(name, "/") {
			return false
		}

		_, isDir := seen[name+"/"]
		return isDir
	})

	if b.AtRoot() {
		return names
	}

	return append([]string{UpEntry}, names...)
}

// Select applies selection of listing index. Negative index cancels and leaves state unchanged.
func (b *Browser) Select(index int) (Action, error) {
	if index < 0 {
		return Action{Kind: ActionCancelled}, nil
	}

	listing := b.Listing()
	if index >= len(listing) {
		return Action{}, fmt.Errorf("%w: %d of %d", ErrInvalidSelection, index, len(listing))
	}

	if !b.AtRoot() && index == 0 {
		b.stack = b.stack[:len(b.stack)-1]
		return Action{Kind: ActionAscend, Path: b.Prefix()}, nil
	}

	fullPath := b.Prefix() + listing[index]
	if strings.HasSuffix(fullPath, "/") {
		b.stack = append(b.stack, fullPath)
		return Action{Kind: ActionDescend, Path: fullPath}, nil
	}

	return Action{Kind: ActionExtract, Path: fullPath}, nil
}

// childName returns the immediate child of prefix in entry path.
// Directory children keep a trailing "/".
func childName(entry, prefix string) (string, bool) {
	rest := strings.TrimPrefix(entry, prefix)
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return rest[:idx+1], true
	}

	return rest, false
}
