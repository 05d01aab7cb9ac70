// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

/*
Package zipcontents browses archives held as hex text and extracts single
entries for viewing. Archive bytes are decoded lazily from a text source laid
out as 16 bytes per line, so ZIP, 7z, and PBO readers can seek inside a
hex dump without materializing it.

Hex layout (summary):
  - each byte is two hex digits;
  - bytes are grouped in pairs separated by one space;
  - eight groups per line, the last separator is a newline;
  - there is no trailing separator after the final group.

# Streams

Wrap any text source in a seekable byte stream:

	src := zipcontents.NewStringSource(text)
	s, err := zipcontents.NewHexStream(src, zipcontents.StreamOptions{})
	if err != nil {
	    return err
	}
	head, err := s.ReadN(4)
	if err != nil {
	    return err
	}
	_ = head

Seeks before stream start clamp to zero by default.
Use SeekModeStrict to reject them with ErrNegativePosition.

Produce hex text from raw bytes:

	text := zipcontents.FormatHex(data)
	_, err := zipcontents.WriteHex(os.Stdout, file)

# Archives

Open archive from hex text (format detected by signature):

	a, err := zipcontents.OpenHexArchive(src, zipcontents.ArchiveOptions{})
	if err != nil {
	    return err
	}
	defer a.Close()
	for _, name := range a.Entries() {
	    // folders end with "/"
	}

Binary archives are opened with OpenArchive or OpenArchiveFile.
PBO trailers can be verified on open:

	a, err := zipcontents.OpenArchiveFile("addon.pbo", zipcontents.ArchiveOptions{
	    VerifyPBOChecksum: true,
	})

# Browsing

Browser synthesizes directories from flat entry paths:

	b := zipcontents.NewBrowser(a.Entries())
	action, err := b.Select(0)
	if err != nil {
	    return err
	}
	switch action.Kind {
	case zipcontents.ActionDescend, zipcontents.ActionAscend:
	    // present b.Listing() again
	case zipcontents.ActionExtract:
	    // extract action.Path
	}

Listings can be filtered with file and folder globs, optionally
followed by ordered github.com/woozymasta/pathrules rules:

	filter, err := zipcontents.NewExcludeFilter(zipcontents.ExcludeOptions{
	    FilePatterns:   []string{"*.tmp"},
	    FolderPatterns: []string{".git", "node_modules"},
	})

# Extracting

Coordinator runs one browse-extract-open session at a time:

	c := zipcontents.NewCoordinator(zipcontents.CoordinatorOptions{
	    Filter:  filter,
	    Chooser: chooseFromMenu,
	    Opener:  openInViewer,
	})
	state, err := c.Browse(ctx, a, zipcontents.ListTree)
	if err != nil {
	    return err
	}
	_ = state

Extracted content lives in a fresh scratch directory and is removed once
the opened view finished loading, or when the session is closed.
*/
package zipcontents
