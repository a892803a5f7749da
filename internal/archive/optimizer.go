package archive

import (
	"bytes"
	"sort"

	"github.com/measter/recordarchive/internal/dict"
)

// candidate is one entry under consideration for the final dictionary:
// a byte sequence and how many times Stage-2 saw it referenced.
type candidate struct {
	seq   []byte
	count uint32
}

// optimize runs Stage-3 (spec.md §4.5): selects at most
// MaxMultiByteDict sequences ranked by weighted saving, re-compresses
// every record against that ordered list, and appends single-byte
// fallbacks on demand. It returns the final dictionary (ordered by id)
// and each record's compressed id stream.
func optimize(seed *dict.Dict, counts map[dict.Id]uint32, records [][]byte) (*dict.Dict, [][]dict.Id) {
	candidates := make([]candidate, 0, len(counts))
	for id, count := range counts {
		if count == 0 {
			continue
		}
		candidates = append(candidates, candidate{seq: seed.SeqOf(id), count: count})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aw, bw := uint64(a.count)*uint64(len(a.seq)), uint64(b.count)*uint64(len(b.seq))
		if aw != bw {
			return aw > bw
		}
		if len(a.seq) != len(b.seq) {
			return len(a.seq) > len(b.seq)
		}
		return bytes.Compare(a.seq, b.seq) < 0
	})

	if len(candidates) > MaxMultiByteDict {
		candidates = candidates[:MaxMultiByteDict]
	}

	compressed := make([][]dict.Id, len(records))
	for i, record := range records {
		compressed[i] = compressRecord(record, &candidates)
	}

	final := dict.New()
	for _, c := range candidates {
		final.Insert(c.seq)
	}

	return final, compressed
}

// compressRecord scans prefixes of record linearly against candidates,
// in ranking order: the first candidate whose bytes are a prefix of
// the remaining record wins. If none matches, a single-byte fallback
// is appended to candidates (count 0, so it never outranks anything)
// and used for this byte.
func compressRecord(record []byte, candidates *[]candidate) []dict.Id {
	var ids []dict.Id

	for len(record) > 0 {
		matched := -1
		for i := range *candidates {
			pf := (*candidates)[i].seq
			if bytes.HasPrefix(record, pf) {
				matched = i
				break
			}
		}

		if matched >= 0 {
			ids = append(ids, dict.Id(matched))
			record = record[len((*candidates)[matched].seq):]
			continue
		}

		newID := dict.Id(len(*candidates))
		*candidates = append(*candidates, candidate{seq: record[:1], count: 0})
		ids = append(ids, newID)
		record = record[1:]
	}

	return ids
}
