package archive

import (
	"fmt"

	"github.com/measter/recordarchive/internal/dict"
)

// scanner runs Stage-1 (spec.md §4.3): it grows the unrestricted seed
// dictionary and stores records verbatim for the later passes.
type scanner struct {
	d           *dict.Dict
	records     [][]byte
	recordLimit int
}

// newScanner returns a scanner that rejects records longer than
// recordLimit bytes, clamped to (0, MaxRecordLen].
func newScanner(recordLimit int) *scanner {
	if recordLimit <= 0 || recordLimit > MaxRecordLen {
		recordLimit = MaxRecordLen
	}
	return &scanner{d: dict.NewSeeded(), recordLimit: recordLimit}
}

// preload inserts entry into the seed dictionary if absent, per
// spec.md §4.6 / §6. Must be called before any addRecord.
func (s *scanner) preload(entry []byte) error {
	if s.d.Contains(entry) {
		return nil
	}
	if s.d.Len() >= MaxDictSize {
		return ErrDictionaryFull
	}
	s.d.Insert(entry)
	return nil
}

// addRecord walks record, growing the dictionary with any genuinely
// new sequence up to MaxDictEntryLen bytes, and stores the record for
// Stage-2/Stage-3.
func (s *scanner) addRecord(record []byte) error {
	if len(record) > s.recordLimit {
		return fmt.Errorf("%w: got %d, limit %d", ErrRecordTooLong, len(record), s.recordLimit)
	}

	curStart := 0
	for idx := range record {
		seq := record[curStart : idx+1]

		if !s.d.Contains(seq) || len(seq) >= MaxDictEntryLen {
			if !s.d.Contains(seq) {
				if s.d.Len() >= MaxDictSize {
					return ErrDictionaryFull
				}
				s.d.Insert(seq)
			}
			curStart = idx
		}
	}

	stored := make([]byte, len(record))
	copy(stored, record)
	s.records = append(s.records, stored)
	return nil
}
