// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// hexSignatures are hex-rendered ZIP markers: local file header, empty archive
// end-of-central-directory record, and spanned archive marker.
var hexSignatures = []string{"504b 0304", "504b 0506", "504b 0708"}

// hexSignatureLen is the number of leading characters compared by HasArchiveSignature.
const hexSignatureLen = 9

// formatReadChunk is the read chunk used by WriteHex; it is a whole number of lines.
const formatReadChunk = 256 * hexBytesPerLine

// FormatHex renders data in the hex text layout consumed by HexStream.
func FormatHex(data []byte) string {
	var b strings.Builder
	b.Grow(int(ByteToHexOffset(int64(len(data)))))
	_, _ = writeHexBytes(&b, data, 0)
	return b.String()
}

// WriteHex renders r to w in the hex text layout and returns number of source bytes.
func WriteHex(w io.Writer, r io.Reader) (int64, error) {
	bw := bufio.NewWriter(w)
	buf := make([]byte, formatReadChunk)

	var total int64
	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			if _, err := writeHexBytes(bw, buf[:n], total); err != nil {
				return total, fmt.Errorf("write hex: %w", err)
			}
			total += int64(n)
		}

		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}

		return total, fmt.Errorf("read source: %w", readErr)
	}

	if err := bw.Flush(); err != nil {
		return total, fmt.Errorf("flush hex: %w", err)
	}

	return total, nil
}

// writeHexBytes writes data as if it starts at absolute byte offset base.
func writeHexBytes(w io.Writer, data []byte, base int64) (int, error) {
	var pair [2]byte
	written := 0
	for idx, v := range data {
		abs := base + int64(idx)
		if abs > 0 {
			sep := byte(' ')
			if abs%hexBytesPerLine == 0 {
				sep = '\n'
			}
			if abs%hexBytesPerGroup == 0 {
				if _, err := w.Write([]byte{sep}); err != nil {
					return written, err
				}
				written++
			}
		}

		hex.Encode(pair[:], []byte{v})
		if _, err := w.Write(pair[:]); err != nil {
			return written, err
		}
		written += len(pair)
	}

	return written, nil
}

// HasArchiveSignature reports whether hex text starts with a known ZIP marker.
func HasArchiveSignature(src TextSource) bool {
	if src == nil || src.ID() <= 0 {
		return false
	}

	head, err := src.Substr(0, hexSignatureLen)
	if err != nil {
		return false
	}

	for _, sig := range hexSignatures {
		if strings.EqualFold(head, sig) {
			return true
		}
	}

	return false
}
