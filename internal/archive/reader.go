package archive

import (
	"io"

	"github.com/measter/recordarchive/internal/varint"
)

// Reader decodes a record archive without allocating: it holds three
// borrowed byte-slice views into the archive plus a cursor, the way
// the teacher's codec.BitStream (internal/codec/rfx/rlgr.go) holds a
// borrowed slice and a bit position rather than copying its input.
// The archive bytes must outlive the Reader.
type Reader struct {
	compressed bool

	// Compressed-mode views.
	dictLookup []byte
	dictBlob   []byte
	records    []byte
	numRecords int
	cursor     int

	// Raw-mode view.
	raw    []byte
	rawPos int
}

// Open parses the envelope byte and header of data and returns a
// Reader positioned at the first record.
func Open(data []byte) (*Reader, error) {
	if len(data) < 1 {
		return nil, ErrLengthDecode
	}

	switch data[0] {
	case envelopeCompressed:
		return openCompressed(data[1:])
	case envelopeRaw:
		return openRaw(data[1:])
	default:
		return nil, ErrInvalidCompressedFlag
	}
}

func openCompressed(body []byte) (*Reader, error) {
	if len(body) < headerSize {
		return nil, ErrLengthDecode
	}

	dictStart := int(getLE16(body[dictStartAddr:]))
	recordStart := int(getLE16(body[recStartAddr:]))
	numRecords := int(getLE16(body[numRecAddr:]))

	if dictStart < headerSize || recordStart < dictStart || recordStart > len(body) {
		return nil, ErrLengthDecode
	}

	return &Reader{
		compressed: true,
		dictLookup: body[headerSize:dictStart],
		dictBlob:   body[dictStart:recordStart],
		records:    body[recordStart:],
		numRecords: numRecords,
	}, nil
}

func openRaw(body []byte) (*Reader, error) {
	numRecords, rest, err := varint.Decode(body)
	if err != nil {
		return nil, ErrLengthDecode
	}
	return &Reader{
		raw:        rest,
		numRecords: int(numRecords),
	}, nil
}

// NumRecords reports the total number of records in the archive.
func (r *Reader) NumRecords() int {
	return r.numRecords
}

// NextRecord decodes the next record into dst and returns the written
// prefix. It returns io.EOF once every record has been read.
func (r *Reader) NextRecord(dst []byte) ([]byte, error) {
	if r.compressed {
		return r.nextCompressed(dst)
	}
	return r.nextRaw(dst)
}

func (r *Reader) nextRaw(dst []byte) ([]byte, error) {
	if len(r.raw) == 0 {
		return nil, io.EOF
	}

	length, rest, err := varint.Decode(r.raw)
	if err != nil {
		return nil, ErrLengthDecode
	}
	if int(length) > len(rest) {
		return nil, ErrRecordRead
	}
	if int(length) > len(dst) {
		return nil, ErrRecordRead
	}

	n := copy(dst, rest[:length])
	r.raw = rest[length:]
	return dst[:n], nil
}

func (r *Reader) nextCompressed(dst []byte) ([]byte, error) {
	if r.cursor >= len(r.records) {
		return nil, io.EOF
	}

	idCount, rest, err := varint.Decode(r.records[r.cursor:])
	if err != nil {
		return nil, ErrLengthDecode
	}

	written := 0
	for i := uint16(0); i < idCount; i++ {
		var id uint16
		id, rest, err = varint.Decode(rest)
		if err != nil {
			return nil, ErrRecordRead
		}

		entry, err := r.dictEntry(id)
		if err != nil {
			return nil, err
		}
		if written+len(entry) > len(dst) {
			return nil, ErrRecordRead
		}
		copy(dst[written:], entry)
		written += len(entry)
	}

	r.cursor = len(r.records) - len(rest)
	return dst[:written], nil
}

// dictEntry resolves id to its byte sequence via the offset table.
func (r *Reader) dictEntry(id uint16) ([]byte, error) {
	slot := int(id) * addrSize
	if slot+addrSize > len(r.dictLookup) {
		return nil, ErrRecordRead
	}
	off := int(getLE16(r.dictLookup[slot:]))

	if off+addrSize > len(r.dictBlob) {
		return nil, ErrRecordRead
	}
	entryLen := int(getLE16(r.dictBlob[off:]))

	start := off + addrSize
	end := start + entryLen
	if end > len(r.dictBlob) {
		return nil, ErrRecordRead
	}
	return r.dictBlob[start:end], nil
}

func getLE16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
