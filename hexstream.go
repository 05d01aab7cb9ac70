// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
)

// Hex text layout: 2 chars per byte, 2 bytes per group, groups are followed by one
// separator char, 8 groups per line. The last group separator of a line is the line break.
const (
	hexCharsPerByte  = 2
	hexBytesPerGroup = 2
	hexCharsPerGroup = hexBytesPerGroup*hexCharsPerByte + 1
	hexGroupsPerLine = 8
	hexCharsPerLine  = hexGroupsPerLine * hexCharsPerGroup
	hexBytesPerLine  = hexGroupsPerLine * hexBytesPerGroup
)

// HexToByteOffset converts hex text character offset to decoded byte offset.
// Offsets inside a byte, group separator, or line break round down to the byte they follow.
func HexToByteOffset(hexOffset int64) int64 {
	lines, rem := hexOffset/hexCharsPerLine, hexOffset%hexCharsPerLine
	groups, rem := rem/hexCharsPerGroup, rem%hexCharsPerGroup
	bytesInGroup := rem / hexCharsPerByte
	return lines*hexBytesPerLine + groups*hexBytesPerGroup + bytesInGroup
}

// ByteToHexOffset converts decoded byte offset to hex text character offset.
func ByteToHexOffset(byteOffset int64) int64 {
	lines, rem := byteOffset/hexBytesPerLine, byteOffset%hexBytesPerLine
	groups, bytesInGroup := rem/hexBytesPerGroup, rem%hexBytesPerGroup
	return lines*hexCharsPerLine + groups*hexCharsPerGroup + bytesInGroup*hexCharsPerByte
}

// HexStream is a read-only, seekable byte stream over hex text.
// It implements io.Reader, io.Seeker, io.ReaderAt and io.Writer (writes always fail).
// Read and Seek share one position and must not be called concurrently.
type HexStream struct {
	src  TextSource
	pos  int64
	mode SeekMode
}

// NewHexStream creates a stream over src. The stream does not own src.
func NewHexStream(src TextSource, opts StreamOptions) (*HexStream, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	opts.applyDefaults()
	return &HexStream{src: src, mode: opts.SeekMode}, nil
}

// Readable reports whether source has valid identity.
func (s *HexStream) Readable() bool {
	return s.src.ID() > 0
}

// Seekable reports whether source has valid identity.
func (s *HexStream) Seekable() bool {
	return s.src.ID() > 0
}

// Tell returns current decoded byte position.
func (s *HexStream) Tell() int64 {
	return s.pos
}

// Size returns decoded byte length of the source.
func (s *HexStream) Size() (int64, error) {
	if !s.Seekable() {
		return 0, ErrNotSeekable
	}

	n, err := s.src.Len()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotSeekable, err)
	}

	return HexToByteOffset(n), nil
}

// Seek sets position for next Read. Results are not clamped to Size on the high end.
// Negative results clamp to zero in SeekModeClamp and fail in SeekModeStrict.
func (s *HexStream) Seek(offset int64, whence int) (int64, error) {
	if !s.Seekable() {
		return 0, ErrNotSeekable
	}

	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = addPosition(s.pos, offset)
	case io.SeekEnd:
		size, err := s.Size()
		if err != nil {
			return 0, err
		}
		next = addPosition(size, offset)
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}

	if next < 0 {
		if s.mode == SeekModeStrict {
			return 0, fmt.Errorf("%w: %d", ErrNegativePosition, next)
		}
		next = 0
	}

	s.pos = next
	return s.pos, nil
}

// addPosition adds offset to base, saturating at int64 bounds.
func addPosition(base, offset int64) int64 {
	switch {
	case offset > 0 && base > math.MaxInt64-offset:
		return math.MaxInt64
	case offset < 0 && base < math.MinInt64-offset:
		return math.MinInt64
	}

	return base + offset
}

// ReadN reads up to n bytes from current position; n < 0 reads to end.
// At or past end it returns empty data and nil error.
func (s *HexStream) ReadN(n int64) ([]byte, error) {
	if !s.Readable() {
		return nil, ErrNotReadable
	}

	size, err := s.Size()
	if err != nil {
		return nil, err
	}

	if s.pos >= size {
		return []byte{}, nil
	}

	end := size
	if n >= 0 {
		end = s.pos + min(n, size-s.pos)
	}

	data, err := s.decodeRange(s.pos, end)
	if err != nil {
		return nil, err
	}

	s.pos = end
	return data, nil
}

// Read implements io.Reader; it returns io.EOF at end of stream.
func (s *HexStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	data, err := s.ReadN(int64(len(p)))
	if err != nil {
		return 0, err
	}

	if len(data) == 0 {
		return 0, io.EOF
	}

	return copy(p, data), nil
}

// ReadAt implements io.ReaderAt without moving stream position.
func (s *HexStream) ReadAt(p []byte, off int64) (int, error) {
	if !s.Readable() {
		return 0, ErrNotReadable
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativePosition, off)
	}

	size, err := s.Size()
	if err != nil {
		return 0, err
	}

	if off >= size {
		return 0, io.EOF
	}

	end := off + min(int64(len(p)), size-off)
	data, err := s.decodeRange(off, end)
	if err != nil {
		return 0, err
	}

	n := copy(p, data)
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Write always fails; the stream is read-only.
func (s *HexStream) Write([]byte) (int, error) {
	return 0, fmt.Errorf("%w: write on read-only hex stream", ErrUnsupportedOperation)
}

// decodeRange decodes bytes [begin, end) from matching hex text range.
func (s *HexStream) decodeRange(begin, end int64) ([]byte, error) {
	textBegin := ByteToHexOffset(begin)
	textEnd := ByteToHexOffset(end)

	text, err := s.src.Substr(textBegin, textEnd)
	if err != nil {
		return nil, fmt.Errorf("read hex text: %w", err)
	}

	data, err := decodeHexText(text)
	if err != nil {
		return nil, fmt.Errorf("decode bytes [%d, %d): %w", begin, end, err)
	}

	if int64(len(data)) != end-begin {
		return nil, fmt.Errorf("%w: bytes [%d, %d) decoded to %d bytes", ErrMalformedHex, begin, end, len(data))
	}

	return data, nil
}

// decodeHexText strips separators and decodes hex digit pairs.
func decodeHexText(text string) ([]byte, error) {
	digits := make([]byte, 0, len(text))
	for idx := 0; idx < len(text); idx++ {
		switch ch := text[idx]; ch {
		case ' ', '\n', '\r', '\t':
			continue
		default:
			digits = append(digits, ch)
		}
	}

	if len(digits)%2 != 0 {
		return nil, fmt.Errorf("%w: odd digit count %d", ErrMalformedHex, len(digits))
	}

	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHex, err)
	}

	return out, nil
}
