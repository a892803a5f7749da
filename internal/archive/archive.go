// Package archive implements the record-archive container: the
// LZW-style three-stage dictionary compressor, the raw/compressed
// envelope, and the streaming reader that decodes records into a
// caller-supplied buffer with no heap allocation.
//
// The pipeline is grounded on the teacher's internal/codec package,
// which also structures a compressor as ordered passes over a byte
// stream with sentinel errors and explicit bounds checks
// (internal/codec/decoder.go's ParseBitmapStream / decompressPlane),
// generalized here from a fixed-shape bitmap codec to a variable-shape
// dictionary one.
package archive

import (
	"errors"
	"fmt"
)

// Size limits from spec.md §3.
const (
	MaxRecordLen     = 32767
	MaxDictEntryLen  = 10
	MaxMultiByteDict = 450
	MaxDictSize      = 65535
)

const (
	headerSize    = 6
	dictStartAddr = 0
	recStartAddr  = 2
	numRecAddr    = 4

	envelopeRaw        = 0x00
	envelopeCompressed = 0x01

	addrSize = 2
)

// Errors returned by Reader, matching spec.md §7's taxonomy.
var (
	// ErrInvalidCompressedFlag is returned when the envelope byte is
	// neither 0x00 nor 0x01.
	ErrInvalidCompressedFlag = errors.New("archive: invalid compressed flag")
	// ErrLengthDecode is returned when a header or varint field could
	// not be parsed because the input was truncated.
	ErrLengthDecode = errors.New("archive: length decode failed")
	// ErrRecordRead is returned when a record could not be decoded:
	// the destination buffer was too small, an id was out of range,
	// or the record stream was truncated mid-record.
	ErrRecordRead = errors.New("archive: record read failed")
)

// ErrRecordTooLong is returned by AddRecord when a record exceeds
// MaxRecordLen.
var ErrRecordTooLong = fmt.Errorf("archive: record exceeds %d bytes", MaxRecordLen)

// ErrDictionaryFull is returned when the Stage-1 seed dictionary would
// exceed MaxDictSize entries.
var ErrDictionaryFull = fmt.Errorf("archive: dictionary exceeds %d entries", MaxDictSize)

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("archive: invariant violated: "+format, args...))
	}
}
