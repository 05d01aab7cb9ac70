// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import (
	"path"
	"strings"
)

// NormalizePath returns raw as a clean relative slash path.
// Backslashes count as separators; "." and "" mean the archive root and yield "".
func NormalizePath(raw string) string {
	slashed := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	return strings.TrimPrefix(path.Clean("/"+slashed), "/")
}

// validateEntryPath rejects empty, absolute, drive-rooted, and ".." entry paths.
func validateEntryPath(entryPath string) error {
	p := strings.ReplaceAll(strings.TrimSpace(entryPath), `\`, "/")
	if p == "" || strings.HasPrefix(p, "/") || strings.ContainsRune(p, 0) || hasDriveRoot(p) {
		return ErrInvalidEntryPath
	}

	named := false
	for part := range strings.SplitSeq(p, "/") {
		switch part {
		case "..":
			return ErrInvalidEntryPath
		case "", ".":
		default:
			named = true
		}
	}
	if !named {
		return ErrInvalidEntryPath
	}

	return nil
}

// hasDriveRoot reports a "C:/" style prefix.
func hasDriveRoot(p string) bool {
	if len(p) < 3 || p[1] != ':' || p[2] != '/' {
		return false
	}

	letter := p[0] | 0x20
	return letter >= 'a' && letter <= 'z'
}
