// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"strings"
)

// BaseName returns the final segment of a slash-separated entry path.
// Directory paths keep no trailing slash; empty input returns empty string.
func BaseName(entryPath string) string {
	entryPath = strings.TrimSuffix(entryPath, "/")
	if idx := strings.LastIndexByte(entryPath, '/'); idx >= 0 {
		return entryPath[idx+1:]
	}

	return entryPath
}

// IsDirEntry reports whether entry path denotes a folder record.
func IsDirEntry(entryPath string) bool {
	return strings.HasSuffix(entryPath, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.TrimPrefix(path, "./")
	return path
}

// normalizeEntryName converts archive-native names to forward-slash form.
// Leading "./" and "/" are dropped; a trailing "/" is kept for folder records.
func normalizeEntryName(name string) string {
	name = strings.ReplaceAll(name, `\`, `/`)
	for {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(name, "./"), "/")
		if trimmed == name {
			break
		}
		name = trimmed
	}

	return name
}
