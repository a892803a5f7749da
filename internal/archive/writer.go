package archive

import (
	"io"

	"github.com/measter/recordarchive/internal/dict"
	"github.com/measter/recordarchive/internal/logging"
	"github.com/measter/recordarchive/internal/varint"
)

// Writer builds a record archive from a stream of records. Its
// three-call shape (PreloadDict, AddRecord, Write) mirrors the
// teacher's request/response builders in internal/protocol/pdu: fill
// a value object incrementally, then serialize it once at the end.
type Writer struct {
	s            *scanner
	maxRecordLen int
	sealed       bool
}

// NewWriter returns a Writer ready to accept dictionary preloads and
// records, rejecting records over MaxRecordLen bytes.
func NewWriter() *Writer {
	return NewWriterWithLimit(MaxRecordLen)
}

// NewWriterWithLimit returns a Writer that rejects records longer than
// recordLimit bytes (clamped to (0, MaxRecordLen]), threading a
// caller-supplied override (e.g. the CLI's --max-record-len flag)
// down into Stage-1's length check.
func NewWriterWithLimit(recordLimit int) *Writer {
	return &Writer{s: newScanner(recordLimit)}
}

// PreloadDict inserts entries into the seed dictionary before any
// record is scanned, per spec.md §4.6. Calling it after AddRecord is a
// programming error, since Stage-1 would already have made growth
// decisions without the preloaded entries.
func (w *Writer) PreloadDict(entries [][]byte) error {
	if len(w.s.records) > 0 {
		invariant(false, "PreloadDict called after AddRecord")
	}
	for _, e := range entries {
		if err := w.s.preload(e); err != nil {
			return err
		}
	}
	return nil
}

// AddRecord appends record to the archive being built.
func (w *Writer) AddRecord(record []byte) error {
	if err := w.s.addRecord(record); err != nil {
		return err
	}
	if len(record) > w.maxRecordLen {
		w.maxRecordLen = len(record)
	}
	return nil
}

// MaxRecordLen returns the longest record length seen so far, used by
// the CLI's build report (spec.md §7).
func (w *Writer) MaxRecordLen() int {
	return w.maxRecordLen
}

// NumRecords returns how many records have been added so far.
func (w *Writer) NumRecords() int {
	return len(w.s.records)
}

// StoreArchive runs Stage-2 and Stage-3, builds both the compressed
// and raw bodies, and returns the shorter of the two with its
// envelope byte prefixed (spec.md §3, §4.6). Compressed wins ties.
func (w *Writer) StoreArchive() ([]byte, error) {
	logging.Stage("stage1", "%d records, %d dict entries", len(w.s.records), w.s.d.Len())

	counts := countFrequencies(w.s.d, w.s.records)
	finalDict, compressedRecords := optimize(w.s.d, counts, w.s.records)
	logging.Stage("stage3", "compressed dictionary %d entries", finalDict.Len())

	compressedBody, err := buildCompressedBody(finalDict, compressedRecords)
	if err != nil {
		return nil, err
	}
	rawBody, err := buildRawBody(w.s.records)
	if err != nil {
		return nil, err
	}

	if len(compressedBody) <= len(rawBody) {
		logging.Stage("archive", "mode=compressed size=%d", 1+len(compressedBody))
		out := make([]byte, 0, 1+len(compressedBody))
		out = append(out, envelopeCompressed)
		return append(out, compressedBody...), nil
	}
	logging.Stage("archive", "mode=raw size=%d", 1+len(rawBody))
	out := make([]byte, 0, 1+len(rawBody))
	out = append(out, envelopeRaw)
	return append(out, rawBody...), nil
}

// Write seals the archive and writes envelope+body to sink.
func (w *Writer) Write(sink io.Writer) error {
	out, err := w.StoreArchive()
	if err != nil {
		return err
	}
	_, err = sink.Write(out)
	return err
}

func buildRawBody(records [][]byte) ([]byte, error) {
	if len(records) > MaxDictSize {
		return nil, ErrDictionaryFull
	}
	var out []byte
	var err error
	out, err = varint.Encode(out, uint16(len(records)))
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		out, err = varint.Encode(out, uint16(len(r)))
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func buildCompressedBody(d *dict.Dict, records [][]dict.Id) ([]byte, error) {
	numEntries := d.Len()
	numRecords := len(records)
	if numRecords > 0xFFFF {
		return nil, ErrRecordTooLong
	}

	lookupLen := numEntries * addrSize
	buf := make([]byte, headerSize+lookupLen)

	putLE16(buf[numRecAddr:], uint16(numRecords))

	dictStart := len(buf)
	putLE16(buf[dictStartAddr:], uint16(dictStart))

	var curAddr uint16
	for id, seq := range d.Entries() {
		invariant(len(seq) <= MaxRecordLen, "dictionary entry exceeds u16 length")
		putLE16(buf[headerSize+id*addrSize:], curAddr)

		var lenBuf [2]byte
		putLE16(lenBuf[:], uint16(len(seq)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, seq...)

		curAddr += uint16(addrSize + len(seq))
	}

	recordStart := len(buf)
	putLE16(buf[recStartAddr:], uint16(recordStart))

	var err error
	for _, idStream := range records {
		buf, err = varint.Encode(buf, uint16(len(idStream)))
		if err != nil {
			return nil, err
		}
		for _, id := range idStream {
			buf, err = varint.Encode(buf, uint16(id))
			if err != nil {
				return nil, err
			}
		}
	}

	return buf, nil
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
