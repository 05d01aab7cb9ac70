// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
)

// TextSource is a random-access provider of hex text characters.
// Implementations are owned by the caller; HexStream keeps a non-owning reference.
type TextSource interface {
	// Len returns total number of hex text characters.
	Len() (int64, error)
	// Substr returns characters in range [begin, end).
	Substr(begin, end int64) (string, error)
	// ID returns stable source identity; zero or negative means source is closed or invalid.
	ID() int64
}

// sourceIDs hands out process-unique positive identities for built-in sources.
var sourceIDs atomic.Int64

// nextSourceID returns next positive source identity.
func nextSourceID() int64 {
	return sourceIDs.Add(1)
}

// StringSource serves hex text held in memory.
type StringSource struct {
	text string
	id   atomic.Int64
}

// NewStringSource wraps in-memory hex text.
func NewStringSource(text string) *StringSource {
	s := &StringSource{text: text}
	s.id.Store(nextSourceID())
	return s
}

// Len returns text length in characters.
func (s *StringSource) Len() (int64, error) {
	return int64(len(s.text)), nil
}

// Substr returns characters in [begin, end) clamped to text bounds.
func (s *StringSource) Substr(begin, end int64) (string, error) {
	begin, end = clampRange(begin, end, int64(len(s.text)))
	return s.text[begin:end], nil
}

// ID returns source identity, or zero after Close.
func (s *StringSource) ID() int64 {
	return s.id.Load()
}

// Close invalidates source identity.
func (s *StringSource) Close() error {
	s.id.Store(0)
	return nil
}

// ReaderAtSource serves hex text from a random-access reader, e.g. a hex dump file.
type ReaderAtSource struct {
	ra   io.ReaderAt
	size int64
	id   atomic.Int64
}

// NewReaderAtSource wraps ra holding size characters of hex text.
func NewReaderAtSource(ra io.ReaderAt, size int64) *ReaderAtSource {
	s := &ReaderAtSource{ra: ra, size: size}
	if ra != nil && size >= 0 {
		s.id.Store(nextSourceID())
	}

	return s
}

// Len returns text length in characters.
func (s *ReaderAtSource) Len() (int64, error) {
	if s.ra == nil || s.size < 0 {
		return 0, ErrNotSeekable
	}

	return s.size, nil
}

// Substr reads characters in [begin, end) clamped to source bounds.
func (s *ReaderAtSource) Substr(begin, end int64) (string, error) {
	if s.ra == nil {
		return "", ErrNotReadable
	}

	begin, end = clampRange(begin, end, s.size)
	if begin == end {
		return "", nil
	}

	buf := make([]byte, end-begin)
	n, err := s.ra.ReadAt(buf, begin)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return "", fmt.Errorf("read hex text [%d, %d): %w", begin, end, err)
	}

	return string(buf[:n]), nil
}

// ID returns source identity, or zero after Close.
func (s *ReaderAtSource) ID() int64 {
	return s.id.Load()
}

// Close invalidates source identity. The underlying reader is not closed.
func (s *ReaderAtSource) Close() error {
	s.id.Store(0)
	return nil
}

// clampRange limits [begin, end) to [0, size] and keeps begin <= end.
func clampRange(begin, end, size int64) (int64, int64) {
	begin = min(max(begin, 0), size)
	end = min(max(end, begin), size)
	return begin, end
}
