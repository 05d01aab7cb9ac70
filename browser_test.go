// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowser_Navigation(t *testing.T) {
	t.Parallel()

	b := NewBrowser([]string{"a", "a/b.txt", "a/c/d.txt", "e.txt"})

	require.True(t, b.AtRoot())
	assert.Equal(t, []string{"a/", "e.txt"}, b.Listing())

	action, err := b.Select(0)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: ActionDescend, Path: "a/"}, action)
	assert.Equal(t, "a/", b.Prefix())

	aListing := b.Listing()
	assert.Equal(t, []string{UpEntry, "b.txt", "c/"}, aListing)

	action, err = b.Select(2)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: ActionDescend, Path: "a/c/"}, action)
	assert.Equal(t, []string{UpEntry, "d.txt"}, b.Listing())

	action, err = b.Select(0)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: ActionAscend, Path: "a/"}, action)
	assert.Equal(t, aListing, b.Listing())

	action, err = b.Select(1)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: ActionExtract, Path: "a/b.txt"}, action)
	assert.Equal(t, "a/", b.Prefix())

	action, err = b.Select(0)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: ActionAscend, Path: ""}, action)
	assert.True(t, b.AtRoot())
}

func TestBrowser_CancelLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	b := NewBrowser([]string{"a/", "a/b.txt", "e.txt"})
	_, err := b.Select(0)
	require.NoError(t, err)

	before := b.Listing()
	action, err := b.Select(-1)
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, action.Kind)
	assert.Equal(t, "a/", b.Prefix())
	assert.Equal(t, before, b.Listing())
}

func TestBrowser_InvalidSelection(t *testing.T) {
	t.Parallel()

	b := NewBrowser([]string{"x.txt"})
	_, err := b.Select(1)
	require.ErrorIs(t, err, ErrInvalidSelection)
	assert.True(t, b.AtRoot())
}

func TestBrowser_EmptyArchive(t *testing.T) {
	t.Parallel()

	b := NewBrowser(nil)
	assert.Empty(t, b.Listing())

	_, err := b.Select(0)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestBrowser_EmptyDirectoryShowsUpEntry(t *testing.T) {
	t.Parallel()

	b := NewBrowser([]string{"empty/", "z.txt"})
	assert.Equal(t, []string{"empty/", "z.txt"}, b.Listing())

	_, err := b.Select(0)
	require.NoError(t, err)
	assert.Equal(t, []string{UpEntry}, b.Listing())
}

func TestBrowser_UnsortedInput(t *testing.T) {
	t.Parallel()

	b := NewBrowser([]string{"z/1.txt", "b.txt", "a/", "a/x.txt", "b.txt"})
	assert.Equal(t, []string{"a/", "b.txt", "z/"}, b.Listing())
}

func TestActionKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cancelled", ActionCancelled.String())
	assert.Equal(t, "extract", ActionExtract.String())
	assert.Equal(t, "ActionKind(9)", ActionKind(9).String())
}
