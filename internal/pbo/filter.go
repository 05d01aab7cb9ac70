// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import "slices"

// filterJunkEntries drops empty payloads, compressed entries without size, and unsafe paths.
func filterJunkEntries(entries []EntryInfo) []EntryInfo {
	return slices.DeleteFunc(entries, func(e EntryInfo) bool {
		return e.DataSize == 0 ||
			(e.MimeType == MimeCompress && e.OriginalSize == 0) ||
			validateEntryPath(e.Path) != nil
	})
}
